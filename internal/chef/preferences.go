package chef

// EffortLevel is how much work the cook is willing to put in.
type EffortLevel string

const (
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// Flexibility says whether the recipe may need items from the store.
type Flexibility string

const (
	FlexibilityStrict         Flexibility = "strict"
	FlexibilityAllowGroceries Flexibility = "allow-groceries"
)

// Preferences are the transient options for the next generation.
type Preferences struct {
	Prompt        string      `json:"prompt"`
	EffortLevel   EffortLevel `json:"effortLevel" validate:"oneof=low medium high"`
	Flexibility   Flexibility `json:"flexibility" validate:"oneof=strict allow-groceries"`
	GenerateImage bool        `json:"generateImage"`
}

// DefaultPreferences returns the preferences a new session starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		EffortLevel:   EffortLow,
		Flexibility:   FlexibilityStrict,
		GenerateImage: true,
	}
}

// Validate checks the enumerated fields.
func (p Preferences) Validate() error {
	return validate.Struct(p)
}

// Constraint is the sentence the prompt uses for the flexibility choice.
func (f Flexibility) Constraint() string {
	if f == FlexibilityStrict {
		return "Strictly use only available ingredients."
	}
	return "Can suggest 1-2 simple grocery items if needed."
}

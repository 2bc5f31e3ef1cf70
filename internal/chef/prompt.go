package chef

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"kitchen-assistant/internal/llm"
)

//go:embed system_prompt.md
var systemPrompt string

//go:embed user_prompt.md
var userPromptTemplate string

var userPromptTmpl = template.Must(template.New("user").Parse(userPromptTemplate))

type userPromptData struct {
	AllIngredients      []string
	SelectedIngredients []string
	Prompt              string
	EffortLevel         EffortLevel
	Constraint          string
}

// BuildPrompt renders the system and user messages for a request.
func BuildPrompt(req Request) (llm.Prompt, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, userPromptData{
		AllIngredients:      req.AllIngredients,
		SelectedIngredients: req.SelectedIngredients,
		Prompt:              strings.TrimSpace(req.Preferences.Prompt),
		EffortLevel:         req.Preferences.EffortLevel,
		Constraint:          req.Preferences.Flexibility.Constraint(),
	})
	if err != nil {
		return llm.Prompt{}, fmt.Errorf("failed to render user prompt: %w", err)
	}

	return llm.Prompt{
		System: strings.TrimSpace(systemPrompt),
		User:   strings.TrimSpace(buf.String()),
	}, nil
}

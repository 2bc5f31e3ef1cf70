package shared

// Names of the text generation backends, shared by configuration and the chef.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderLocal     = "local"
	ProviderGroq      = "groq"
	ProviderGemini    = "gemini"
)

// ProviderNames lists every known provider in display order.
var ProviderNames = []string{ProviderOpenAI, ProviderAnthropic, ProviderLocal, ProviderGroq, ProviderGemini}

// IsProviderName reports whether name is one of ProviderNames.
func IsProviderName(name string) bool {
	for _, known := range ProviderNames {
		if name == known {
			return true
		}
	}
	return false
}

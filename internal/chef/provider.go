package chef

import (
	"fmt"
	"strings"

	"kitchen-assistant/internal/shared"
)

// Provider names a text generation backend.
type Provider string

const (
	ProviderOpenAI    Provider = shared.ProviderOpenAI
	ProviderAnthropic Provider = shared.ProviderAnthropic
	ProviderLocal     Provider = shared.ProviderLocal
	ProviderGroq      Provider = shared.ProviderGroq
	ProviderGemini    Provider = shared.ProviderGemini
)

// DefaultProvider is used when nothing else was chosen.
const DefaultProvider = ProviderOpenAI

// Providers lists every known provider in display order.
var Providers = func() []Provider {
	out := make([]Provider, len(shared.ProviderNames))
	for i, name := range shared.ProviderNames {
		out[i] = Provider(name)
	}
	return out
}()

// ParseProvider converts a name such as "groq" into a Provider.
func ParseProvider(name string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(name)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	return shared.IsProviderName(string(p))
}

// FallsBackToMock reports whether the provider answers with the built-in
// mock recipes when it is unconfigured or its upstream call fails.
// openai and gemini report errors instead.
func (p Provider) FallsBackToMock() bool {
	switch p {
	case ProviderLocal, ProviderGroq, ProviderAnthropic:
		return true
	default:
		return false
	}
}

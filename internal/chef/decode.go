package chef

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"kitchen-assistant/internal/recipe"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeDraft parses a provider response into a recipe draft. The payload
// must be a single JSON object with exactly the draft fields, all of them
// non-empty and at least one ingredient. A surrounding markdown code fence
// is ignored.
func DecodeDraft(content string) (recipe.Draft, error) {
	body := stripCodeFence(content)

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var d recipe.Draft
	if err := dec.Decode(&d); err != nil {
		return recipe.Draft{}, fmt.Errorf("%w: %v", ErrMalformedRecipe, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return recipe.Draft{}, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedRecipe)
	}
	if err := validate.Struct(d); err != nil {
		return recipe.Draft{}, fmt.Errorf("%w: %v", ErrMalformedRecipe, err)
	}
	return d, nil
}

func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the info string, e.g. "json"
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

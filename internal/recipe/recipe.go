package recipe

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// PNGDataURIPrefix prefixes every generated image payload.
const PNGDataURIPrefix = "data:image/png;base64,"

// Recipe is a generated recipe. Image is an optional data URI and is kept
// out of the structured store; see the cookbook package.
type Recipe struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	EstimatedTime string   `json:"estimatedTime"`
	Ingredients   []string `json:"ingredients"`
	Procedure     string   `json:"procedure"`
	Image         string   `json:"image,omitempty"`
}

// HasImage reports whether the recipe carries an image payload.
func (r Recipe) HasImage() bool {
	return r.Image != ""
}

// WithoutImage returns a copy of the recipe with the image stripped.
func (r Recipe) WithoutImage() Recipe {
	r.Image = ""
	r.Ingredients = append([]string(nil), r.Ingredients...)
	return r
}

// Draft is the text part of a recipe as produced by a text provider.
// Every field is required.
type Draft struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	EstimatedTime string   `json:"estimatedTime" validate:"required"`
	Ingredients   []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Procedure     string   `json:"procedure" validate:"required"`
}

// Assemble turns a draft into a recipe with the given id.
func (d Draft) Assemble(id int64) Recipe {
	return Recipe{
		ID:            id,
		Title:         d.Title,
		Description:   d.Description,
		EstimatedTime: d.EstimatedTime,
		Ingredients:   append([]string(nil), d.Ingredients...),
		Procedure:     d.Procedure,
	}
}

// DecodePNGDataURI validates a PNG data URI and returns its raw bytes.
func DecodePNGDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, PNGDataURIPrefix) {
		return nil, fmt.Errorf("not a png data uri")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, PNGDataURIPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	return data, nil
}

// EncodePNGDataURI wraps raw PNG bytes in a data URI.
func EncodePNGDataURI(png []byte) string {
	return PNGDataURIPrefix + base64.StdEncoding.EncodeToString(png)
}

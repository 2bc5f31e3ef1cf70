// Package pantry holds the ingredient list rules. Every function returns a
// new slice and leaves its input untouched.
package pantry

import (
	"strings"
)

// Ingredient is an item the user has on hand.
type Ingredient struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// Add appends a new unselected ingredient. It reports false, and returns the
// list unchanged, when the trimmed text is empty or already present
// (case-insensitive).
func Add(list []Ingredient, id int64, text string) ([]Ingredient, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || Contains(list, trimmed) {
		return list, false
	}

	out := make([]Ingredient, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, Ingredient{ID: id, Text: trimmed})
	return out, true
}

// Contains reports whether an ingredient with the same text exists.
func Contains(list []Ingredient, text string) bool {
	needle := strings.TrimSpace(text)
	for _, ing := range list {
		if strings.EqualFold(ing.Text, needle) {
			return true
		}
	}
	return false
}

// Remove drops the ingredient with the given id.
func Remove(list []Ingredient, id int64) ([]Ingredient, bool) {
	out := make([]Ingredient, 0, len(list))
	for _, ing := range list {
		if ing.ID != id {
			out = append(out, ing)
		}
	}
	return out, len(out) != len(list)
}

// Toggle flips the selection of the ingredient with the given id.
func Toggle(list []Ingredient, id int64) ([]Ingredient, bool) {
	out := make([]Ingredient, len(list))
	found := false
	for i, ing := range list {
		if ing.ID == id {
			ing.Selected = !ing.Selected
			found = true
		}
		out[i] = ing
	}
	return out, found
}

// ToggleAll applies the majority rule: when fewer than half of the
// ingredients are selected every ingredient becomes selected, otherwise every
// ingredient is deselected. Exactly half selected deselects all.
func ToggleAll(list []Ingredient) []Ingredient {
	if len(list) == 0 {
		return list
	}

	selectAll := float64(CountSelected(list)) < float64(len(list))/2
	out := make([]Ingredient, len(list))
	for i, ing := range list {
		ing.Selected = selectAll
		out[i] = ing
	}
	return out
}

// CountSelected returns the number of selected ingredients.
func CountSelected(list []Ingredient) int {
	n := 0
	for _, ing := range list {
		if ing.Selected {
			n++
		}
	}
	return n
}

// SelectedTexts returns the texts of the selected ingredients, in list order.
func SelectedTexts(list []Ingredient) []string {
	var out []string
	for _, ing := range list {
		if ing.Selected {
			out = append(out, ing.Text)
		}
	}
	return out
}

// Texts returns the texts of all ingredients, in list order.
func Texts(list []Ingredient) []string {
	out := make([]string, 0, len(list))
	for _, ing := range list {
		out = append(out, ing.Text)
	}
	return out
}

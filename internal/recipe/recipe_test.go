package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutImage(t *testing.T) {
	r := Recipe{ID: 7, Title: "Soup", Ingredients: []string{"water"}, Image: "data:image/png;base64,AA=="}

	stripped := r.WithoutImage()
	assert.False(t, stripped.HasImage())
	assert.True(t, r.HasImage(), "original must keep its image")

	stripped.Ingredients[0] = "stock"
	assert.Equal(t, "water", r.Ingredients[0], "ingredients must not be shared")
}

func TestDraftAssemble(t *testing.T) {
	d := Draft{
		Title:         "Toast",
		Description:   "Bread, but hot.",
		EstimatedTime: "5 minutes",
		Ingredients:   []string{"bread"},
		Procedure:     "1. Toast it.",
	}

	r := d.Assemble(99)
	assert.Equal(t, int64(99), r.ID)
	assert.Equal(t, "Toast", r.Title)
	assert.Equal(t, []string{"bread"}, r.Ingredients)
	assert.Empty(t, r.Image)
}

func TestPNGDataURI(t *testing.T) {
	uri := EncodePNGDataURI([]byte{0x89, 'P', 'N', 'G'})
	assert.Equal(t, "data:image/png;base64,iVBORw==", uri)

	raw, err := DecodePNGDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, raw)

	_, err = DecodePNGDataURI("https://example.com/x.png")
	assert.Error(t, err)
	_, err = DecodePNGDataURI(PNGDataURIPrefix + "!!!")
	assert.Error(t, err)
	_, err = DecodePNGDataURI(PNGDataURIPrefix)
	assert.Error(t, err)
}

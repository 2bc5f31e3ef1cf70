package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsProviderName(t *testing.T) {
	for _, name := range ProviderNames {
		assert.True(t, IsProviderName(name), name)
	}
	assert.False(t, IsProviderName("mystery"))
	assert.False(t, IsProviderName("OpenAI"))
	assert.False(t, IsProviderName(""))
}

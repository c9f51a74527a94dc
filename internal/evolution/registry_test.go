package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Lookup(t *testing.T) {
	registry := DefaultRegistry()

	mod, ok := registry.Lookup("default_growth")
	require.True(t, ok)
	assert.NotEmpty(t, mod.BasePrompt)
	assert.NotEmpty(t, mod.NegativePrompt)
	assert.Equal(t, "evolved", mod.OutputLabel)
}

func TestDefaultRegistry_UnknownKey(t *testing.T) {
	registry := DefaultRegistry()

	_, ok := registry.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestDefaultRegistry_AllEntriesComplete(t *testing.T) {
	for key, mod := range DefaultRegistry() {
		assert.NotEmpty(t, mod.OutputLabel, "label for %s", key)
		assert.NotEmpty(t, mod.BasePrompt, "prompt for %s", key)
		assert.NotEmpty(t, mod.NegativePrompt, "negative prompt for %s", key)
	}
}

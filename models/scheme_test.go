package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSchemesAreValid(t *testing.T) {
	t.Parallel()

	for _, name := range SchemeNames() {
		scheme, ok := SchemeByName(name)
		require.True(t, ok, "missing built-in scheme %q", name)
		assert.NoError(t, scheme.Validate())
		assert.Equal(t, name, scheme.Name)
	}
}

func TestSchemeByNameUnknown(t *testing.T) {
	t.Parallel()

	_, ok := SchemeByName("neon")
	assert.False(t, ok)
}

func TestSchemeValidateRejectsBadColors(t *testing.T) {
	t.Parallel()

	scheme := DefaultScheme()
	scheme.PriceText = "purple"
	err := scheme.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price_text")
}

func TestDefaultSchemeIsDefault(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "default", DefaultScheme().Name)
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"brazilian decimal", "89,90", 89.90},
		{"brazilian with thousands", "1.234,56", 1234.56},
		{"plain decimal", "89.90", 89.90},
		{"currency prefix", "R$ 45,00", 45.00},
		{"integer", "120", 120},
		{"surrounding spaces", "  15,50  ", 15.50},
		{"zero", "0", 0},
		{"us thousands", "1,234.56", 1234.56},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestParsePriceInvalid(t *testing.T) {
	t.Parallel()

	invalid := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"spaces only", "   "},
		{"text", "grátis"},
		{"negative", "-10,00"},
		{"double comma", "1,2,3"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrice(tt.raw)
			assert.Error(t, err)
		})
	}
}

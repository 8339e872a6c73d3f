package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatBRL formats a price as a string like "R$ 1.234,56".
// Uses dot as thousands separator and comma as decimal separator
// (Brazilian convention).
func FormatBRL(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	intPart := strconv.FormatInt(cents/100, 10)
	fracPart := cents % 100

	var b strings.Builder
	// Pre-allocate: digits + separators + currency prefix
	b.Grow(len(intPart) + len(intPart)/3 + 7)
	if neg {
		b.WriteString("-R$ ")
	} else {
		b.WriteString("R$ ")
	}

	// Insert thousands separators from the left.
	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte('.')
		b.WriteString(intPart[i : i+3])
	}

	b.WriteByte(',')
	if fracPart < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(fracPart, 10))

	return b.String()
}

package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice coerces a locale-formatted price string to a float64.
// Accepts Brazilian formats ("89,90", "1.234,56", "R$ 45,00") as well as
// plain decimals ("89.90"). Returns an error for empty, unparseable or
// negative values.
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	// Strip everything except digits and separators (currency symbols, spaces).
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value in %q", raw)
	}

	// When both separators appear, the rightmost one is the decimal mark;
	// the other is a thousands separator and is dropped.
	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			return 0, fmt.Errorf("invalid price format: %q", raw)
		}
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("negative price: %v", price)
	}
	return price, nil
}

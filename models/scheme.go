package models

import (
	"fmt"
	"regexp"
)

// ColorScheme is a named palette applied to a catalog template. Every role
// must hold a valid #rrggbb value; a scheme is immutable once defined.
type ColorScheme struct {
	Name            string `json:"name"`
	Background      string `json:"background"`
	Title           string `json:"title"`
	DescriptionText string `json:"descriptionText"`
	PriceText       string `json:"priceText"`
	Border          string `json:"border"`
	Highlight       string `json:"highlight"`
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks that every color role resolves to a valid hex color.
func (s ColorScheme) Validate() error {
	roles := map[string]string{
		"background":       s.Background,
		"title":            s.Title,
		"description_text": s.DescriptionText,
		"price_text":       s.PriceText,
		"border":           s.Border,
		"highlight":        s.Highlight,
	}
	for role, value := range roles {
		if !hexColorRegex.MatchString(value) {
			return fmt.Errorf("scheme %q: invalid color for role %s: %q", s.Name, role, value)
		}
	}
	return nil
}

// Built-in schemes. Ordering of builtinSchemeNames is the generation order
// used by the all-schemes mode.
var (
	builtinSchemeNames = []string{"default", "dark_mode", "minimal"}

	builtinSchemes = map[string]ColorScheme{
		"default": {
			Name:            "default",
			Background:      "#F28E30",
			Title:           "#333333",
			DescriptionText: "#6BC0C9",
			PriceText:       "#7F4C9E",
			Border:          "#00A79D",
			Highlight:       "#7AD0E0",
		},
		"dark_mode": {
			Name:            "dark_mode",
			Background:      "#1C1C1C",
			Title:           "#FFFFFF",
			DescriptionText: "#7AD0E0",
			PriceText:       "#7F4C9E",
			Border:          "#00A79D",
			Highlight:       "#6BC0C9",
		},
		"minimal": {
			Name:            "minimal",
			Background:      "#F8F8F8",
			Title:           "#333333",
			DescriptionText: "#6BC0C9",
			PriceText:       "#F28E30",
			Border:          "#DDDDDD",
			Highlight:       "#00A79D",
		},
	}
)

// SchemeByName returns a built-in color scheme by name.
func SchemeByName(name string) (ColorScheme, bool) {
	s, ok := builtinSchemes[name]
	return s, ok
}

// DefaultScheme returns the scheme used when a variant does not name one.
func DefaultScheme() ColorScheme {
	return builtinSchemes["default"]
}

// SchemeNames lists the built-in scheme names in generation order.
func SchemeNames() []string {
	names := make([]string, len(builtinSchemeNames))
	copy(names, builtinSchemeNames)
	return names
}

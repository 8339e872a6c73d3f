// Package templates embeds the built-in catalog markup and stylesheet.
package templates

import "embed"

//go:embed *.html *.css
var FS embed.FS

// Package templates holds the HTML views of the app. Every view is a plain
// templ.Component assembled in Go; fragments swapped by HTMX share stable
// element ids with the full pages that embed them.
package templates

import (
	"strconv"

	"github.com/a-h/templ"
)

// esc escapes text for element bodies and quoted attribute values.
func esc(s string) string { return templ.EscapeString(s) }

// num renders a float without trailing zeros, for input values.
func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// Package web holds the HTML templates of the calculator UI.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

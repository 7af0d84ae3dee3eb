// Package views embeds the static landing page.
package views

import _ "embed"

//go:embed index.html
var IndexHTML []byte

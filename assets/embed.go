// Package assets embeds the static files served under /assets/.
package assets

import "embed"

//go:embed ui.css
var FS embed.FS

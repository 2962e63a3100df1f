// Package web embeds the HTML templates and static assets.
package web

import "embed"

// Assets holds templates/ and static/
//
//go:embed templates static
var Assets embed.FS

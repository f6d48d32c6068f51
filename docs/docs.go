// Package docs holds the user-facing documentation that ships inside
// the lcopy binary.
package docs

import (
	_ "embed"
)

// ConfigFormat is the configuration-format manual shown by the docs
// command.
//
//go:embed config-format.md
var ConfigFormat string

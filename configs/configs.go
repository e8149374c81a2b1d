// Package configs embeds configuration files for use at runtime.
package configs

import (
	_ "embed"
)

// Example is the annotated sample config written by `tilegrid config init`.
//
//go:embed config.example.yaml
var Example []byte

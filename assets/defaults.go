package assets

import (
	_ "embed"
)

// DefaultConfigYAML contains the embedded default settings.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

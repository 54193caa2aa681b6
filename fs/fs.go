package appfs

import "embed"

//go:embed assets migrations all:templates
var FS embed.FS

// Package data holds the default catalogs compiled into the binary.
package data

import (
	"embed"
	"io/fs"
)

// Names of the embedded catalogs.
const (
	ContentFile = "content.json"
	ProcgenFile = "procgen.json"
)

//go:embed content.json procgen.json
var catalogs embed.FS

// FS returns the embedded catalogs. Paths passed to --content or --procgen
// replace these at load time.
func FS() fs.FS {
	return catalogs
}

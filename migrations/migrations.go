// Package migrations embeds the goose SQL migrations applied at startup.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed *.sql
var files embed.FS

// FS returns the migration filesystem rooted at the .sql files.
func FS() fs.FS {
	return files
}

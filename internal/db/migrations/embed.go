// Package migrations holds the goose SQL migrations for the listings database.
package migrations

import "embed"

// FS contains every migration file, embedded so the server binary is self-contained
//
//go:embed *.sql
var FS embed.FS

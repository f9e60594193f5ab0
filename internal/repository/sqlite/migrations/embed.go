package migrations

import "embed"

// FS contains embedded goose migrations for the settings store.
//
//go:embed *.sql
var FS embed.FS

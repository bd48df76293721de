// Package sqlite embeds the goose SQL migrations for the SQLite backend,
// the local/demo adapter that mirrors the PostgreSQL schema.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS

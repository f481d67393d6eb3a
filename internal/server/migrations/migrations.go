// Package migrations embeds the PostgreSQL schema migrations of the backend.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

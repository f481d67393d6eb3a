// Package migrations embeds the SQL migrations of the client profile cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

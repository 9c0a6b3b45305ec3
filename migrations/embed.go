// Package migrations embeds the goose SQL migrations of the budget database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Dir is the source directory used when creating new migrations
const Dir = "migrations"

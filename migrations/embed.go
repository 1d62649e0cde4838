// Package migrations embeds the goose SQL migrations for the scheduler's
// Postgres schema so cmd/api, cmd/migrate and the integration tests all
// apply the same files.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS

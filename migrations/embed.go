// Package migrations embeds the SQL migration files so the goose programmatic
// API can apply them at server bootstrap and in repo-test TestMain functions.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time, so the schema
// ships inside the binary and no filesystem path needs to exist at runtime.
//
//go:embed *.sql
var FS embed.FS

// Package migrations embeds the goose SQL migrations so the binary can
// bring any database file up to date on its own.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

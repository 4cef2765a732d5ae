// Package db embeds the SQL migrations so production builds don't need the
// migration files on disk. Build with -tags embed_migrations to use them.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS

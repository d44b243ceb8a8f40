package db

import "embed"

// Migrations holds the SQL schema files applied by internal/db.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

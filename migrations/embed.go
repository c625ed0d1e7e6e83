package migrations

import "embed"

// FS holds the schema migrations for every supported database, one
// directory per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

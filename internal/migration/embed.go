package migration

import "embed"

const schemaDir = "migrations"

//go:embed migrations/*.up.sql
var schemaFiles embed.FS

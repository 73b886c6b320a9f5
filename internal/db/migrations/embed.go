// filepath: internal/db/migrations/embed.go
package migrations

import "embed"

// FS embeds the SQL migration files, one directory per dialect. The
// two directories carry the same versions; only the SQL differs.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// Dir returns the embedded directory for the configured driver.
func Dir(driver string) string {
	if driver == "postgres" {
		return "postgres"
	}
	return "sqlite"
}

package persistence

import "database/sql"

// EnsureSessionSchema creates the wizard session table when missing.
func EnsureSessionSchema(db *sql.DB) error {
	q := `CREATE TABLE IF NOT EXISTS wizard_sessions (
		id TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`
	_, err := db.Exec(q)
	return err
}

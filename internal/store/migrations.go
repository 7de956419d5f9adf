package store

import "fmt"

// migrate creates the schema if it does not exist. Statements are idempotent
// so the store can be reopened against an existing database.
func (s *Store) migrate() error {
	// Column type spellings differ per driver. MySQL key columns must be
	// VARCHAR because TEXT cannot carry a UNIQUE index without a length.
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	key := "TEXT"
	text := "TEXT"
	ts := "TIMESTAMP"
	switch s.driver {
	case DriverMySQL:
		pk = "BIGINT PRIMARY KEY AUTO_INCREMENT"
		key = "VARCHAR(255)"
		text = "VARCHAR(500)"
	case DriverPostgres:
		pk = "BIGSERIAL PRIMARY KEY"
		ts = "TIMESTAMPTZ"
	}

	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admins (
			id %s,
			username %s UNIQUE NOT NULL,
			password_hash %s NOT NULL,
			role %s NOT NULL DEFAULT 'admin',
			created_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, pk, key, text, text, ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS hof_entries (
			id %s,
			name %s NOT NULL,
			category %s NOT NULL,
			month %s NOT NULL,
			year INTEGER,
			link %s NOT NULL,
			avatar %s NOT NULL,
			discord %s NOT NULL,
			x_handle %s NOT NULL,
			placement INTEGER,
			created_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, pk, text, text, text, text, text, text, text, ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS wbc_entries (
			id %s,
			name %s NOT NULL,
			month %s NOT NULL,
			year INTEGER,
			date_range %s,
			link %s NOT NULL,
			discord %s NOT NULL,
			x_handle %s NOT NULL,
			avatar %s NOT NULL,
			created_at %s NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, pk, text, text, text, text, text, text, text, ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS creators (
			discord %s PRIMARY KEY,
			display_name %s,
			avatar %s,
			x_handle %s
		)`, key, text, text, text),
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

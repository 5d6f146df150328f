package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - backend state that survives restarts
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Captures table - one row per screenshot written to disk
		`CREATE TABLE IF NOT EXISTS captures (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			ratio TEXT NOT NULL,
			resolution TEXT NOT NULL,
			size_bytes INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_captures_created_at ON captures(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

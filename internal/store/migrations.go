package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Glove sizes table - reference sizes used for calibration
		`CREATE TABLE IF NOT EXISTS glove_sizes (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			palm_width_cm REAL NOT NULL CHECK(palm_width_cm > 0),
			finger_lengths TEXT NOT NULL DEFAULT '{}',
			model_file TEXT NOT NULL,
			sort_order INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_glove_sizes_sort_order ON glove_sizes(sort_order)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}

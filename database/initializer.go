package database

import "log"

func (s *SQLStore) InitTables() error {
	kvTable := `
	CREATE TABLE IF NOT EXISTS kv_entries (
		key VARCHAR(255) PRIMARY KEY,
		value TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := s.db.Exec(kvTable); err != nil {
		log.Println("Error creating kv_entries table:", err)
		return err
	}
	return nil
}

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the database/sql driver and its SQL flavour
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

func (d Dialect) placeholder(n int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// SQLStore is a raw database/sql KeyValue over lib/pq or modernc sqlite
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

func StartSQL(dialect Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(string(dialect), dsn)
	if err != nil {
		log.Printf("Unable to open %s database: %v", dialect, err)
		return nil, err
	}
	if dialect == DialectSQLite {
		// a single connection serializes writers
		db.SetMaxOpenConns(1)
	}

	log.Printf("Successfully opened %s database.", dialect)
	return NewSQLStore(db, dialect), nil
}

func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) Init() error {
	log.Printf("Initializing %s database.", s.dialect)
	return s.InitTables()
}

func (s *SQLStore) Close() error {
	log.Printf("Closing %s database.", s.dialect)
	return s.db.Close()
}

// HealthCheck verifies the database connection is alive
func (s *SQLStore) HealthCheck() error {
	return s.db.Ping()
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf(`SELECT value FROM kv_entries WHERE key = %s`, s.dialect.placeholder(1))

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`
		INSERT INTO kv_entries (key, value, updated_at) VALUES (%s, %s, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;`,
		s.dialect.placeholder(1), s.dialect.placeholder(2))

	_, err := s.db.ExecContext(ctx, query, key, value)
	return err
}

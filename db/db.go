package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"rapid-steno/crm-sync/logger"
)

// Store is the CRM's Postgres schema (see schema.sql). The ingest API serves
// it over HTTP; the direct-sync variant writes to it without the API in
// between. Both paths go through the same upsert semantics.
type Store struct {
	db *sql.DB
}

func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	logger.Get().Info("connected to CRM database")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

package repomanager

import (
	"database/sql"
	"fmt"
	"strings"
)

const sqliteScheme = "sqlite://"

// Open picks the storage adapter from the DSN scheme and opens the database.
// "sqlite://path/to.db" selects the local SQLite adapter; anything else is
// treated as a PostgreSQL DSN for the pgx stdlib driver.
func Open(dsn string) (*sql.DB, RepositoryManager, error) {
	if path, ok := strings.CutPrefix(dsn, sqliteScheme); ok {
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite open error: %w", err)
		}
		return db, NewSqliteRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("postgres open error: %w", err)
	}
	return db, NewPostgresRepositoryManager(), nil
}

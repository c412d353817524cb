package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/digkill/adboard/internal/config"
)

// Connect opens the SQLite database at the configured path, creating the
// parent directory if needed. SQLite serializes writes on its own, so the
// pool is kept to a single connection to avoid SQLITE_BUSY churn.
func Connect(cfg config.Config) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.SQLitePath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Minute * 5)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// Migrate runs the bootstrap schema to ensure required tables exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SchemaTables reports which of the expected tables are present. Backs the
// /check-db diagnostic endpoint.
func SchemaTables(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	present := make(map[string]bool, len(Tables))
	for _, name := range Tables {
		const query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
		var count int
		if err := db.QueryRowContext(ctx, query, name).Scan(&count); err != nil {
			return nil, fmt.Errorf("check table %s: %w", name, err)
		}
		present[name] = count > 0
	}
	return present, nil
}

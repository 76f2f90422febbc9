package overpass

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hideseek/quarry/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest response-cache schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// InitCacheDB initializes the SQLite response cache at baseDir/quarry.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.quarry.
func InitCacheDB(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	dbPath := filepath.Join(baseDir, "quarry.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS provider_responses (
		  query_hash TEXT PRIMARY KEY,
		  body       BLOB NOT NULL,
		  fetched_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_provider_responses_fetched_at
		ON provider_responses(fetched_at);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", CurrentSchemaVersion)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}

	return nil
}

// responseCache stores raw provider response bodies keyed by query hash.
type responseCache struct {
	db  *sql.DB
	ttl time.Duration
}

func hashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

// get returns a cached body if present and fresh.
func (c *responseCache) get(query string) ([]byte, bool) {
	var body []byte
	var fetchedAt int64
	err := c.db.QueryRow(
		"SELECT body, fetched_at FROM provider_responses WHERE query_hash = ?",
		hashQuery(query),
	).Scan(&body, &fetchedAt)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		return nil, false
	}
	return body, true
}

// put stores a response body, replacing any stale entry.
func (c *responseCache) put(query string, body []byte) {
	_, _ = c.db.Exec(
		"INSERT OR REPLACE INTO provider_responses (query_hash, body, fetched_at) VALUES (?, ?, ?)",
		hashQuery(query), body, time.Now().Unix(),
	)
}

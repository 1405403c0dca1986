package sqlite

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"figvault/internal/domain"
	"figvault/internal/ports"
)

const schemaVersion = "1"

// Cache implements ports.DigestCache using SQLite. It lives in a
// hidden directory under the destination root, which the vault scan
// skips.
type Cache struct {
	db     *sql.DB
	dbPath string
}

// Ensure Cache implements the port
var _ ports.DigestCache = (*Cache)(nil)

// NewCache creates a new SQLite digest cache
func NewCache() *Cache {
	return &Cache{}
}

// Open initializes the cache for the given destination root
func (c *Cache) Open(root string) error {
	c.dbPath = filepath.Join(root, ".figvault", "digests.db")

	if err := os.MkdirAll(filepath.Dir(c.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", c.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS digests (
			path TEXT PRIMARY KEY,
			size INTEGER NOT NULL,
			mtime INTEGER NOT NULL,
			digest TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := c.checkSchema(); err != nil {
		db.Close()
		return err
	}
	return nil
}

// checkSchema drops stale rows when the schema version changes.
func (c *Cache) checkSchema() error {
	var stored string
	err := c.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
	switch {
	case err == sql.ErrNoRows:
		_, err = c.db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
		return err
	case err != nil:
		return err
	case stored != schemaVersion:
		if _, err := c.db.Exec(`DELETE FROM digests`); err != nil {
			return err
		}
		_, err = c.db.Exec(`UPDATE meta SET value = ? WHERE key = 'schema_version'`, schemaVersion)
		return err
	default:
		return nil
	}
}

// Get returns the cached digest if size and mtime still match.
func (c *Cache) Get(relPath string, size, mtime int64) (domain.Digest, bool) {
	var storedSize, storedMtime int64
	var digestHex string
	err := c.db.QueryRow(
		`SELECT size, mtime, digest FROM digests WHERE path = ?`, relPath,
	).Scan(&storedSize, &storedMtime, &digestHex)
	if err != nil || storedSize != size || storedMtime != mtime {
		return domain.Digest{}, false
	}

	raw, err := hex.DecodeString(digestHex)
	if err != nil || len(raw) != len(domain.Digest{}) {
		return domain.Digest{}, false
	}
	var d domain.Digest
	copy(d[:], raw)
	return d, true
}

// Put upserts a digest row.
func (c *Cache) Put(relPath string, size, mtime int64, digest domain.Digest) error {
	_, err := c.db.Exec(`
		INSERT INTO digests (path, size, mtime, digest) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET size = excluded.size, mtime = excluded.mtime, digest = excluded.digest
	`, relPath, size, mtime, digest.Hex())
	return err
}

// Close closes the database
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

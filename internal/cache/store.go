// Package cache persists image digests between runs in a SQLite database.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"ImageGrouper/internal/collect"
)

// ErrLocked is returned by Open when another process holds the cache.
var ErrLocked = errors.New("digest cache is in use by another process")

// schemaVersion is stored in PRAGMA user_version. Older caches are dropped
// and rebuilt since every row can be recomputed.
const schemaVersion = 2

const schema = `CREATE TABLE IF NOT EXISTS digests (
    path        TEXT    NOT NULL,
    side        INTEGER NOT NULL,
    auto_orient INTEGER NOT NULL,
    size        INTEGER NOT NULL,
    mod_time    INTEGER NOT NULL,
    digest      TEXT    NOT NULL,
    PRIMARY KEY (path, side, auto_orient)
)`

// Key names the hashing options a digest was computed with. Digests made
// under different options never serve each other.
type Key struct {
	Side       int
	AutoOrient bool
}

// Store persists digests keyed by (path, Key). A row is only trusted while
// the file's size and modification time still match.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

type Entry struct {
	Item   collect.Item
	Digest string
}

// Open creates or opens the cache database at path and takes an exclusive
// lock next to it for the lifetime of the Store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return &Store{db: db, path: path, lock: lock}, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version < schemaVersion {
		if _, err := db.Exec("DROP TABLE IF EXISTS digests"); err != nil {
			return fmt.Errorf("drop stale schema: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if version != schemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
	}
	return nil
}

func (s *Store) Path() string { return s.path }

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if uerr := s.lock.Unlock(); err == nil {
		err = uerr
	}
	return err
}

// Snapshot loads every digest recorded under key into memory.
func (s *Store) Snapshot(ctx context.Context, key Key) (*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, size, mod_time, digest FROM digests WHERE side = ? AND auto_orient = ?`,
		key.Side, key.AutoOrient)
	if err != nil {
		return nil, fmt.Errorf("query digests: %w", err)
	}
	defer rows.Close()

	snap := &Snapshot{entries: map[string]row{}}
	for rows.Next() {
		var (
			p string
			r row
		)
		if err := rows.Scan(&p, &r.size, &r.modTime, &r.digest); err != nil {
			return nil, fmt.Errorf("scan digest: %w", err)
		}
		snap.entries[p] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate digests: %w", err)
	}
	return snap, nil
}

// Put upserts entries under key in a single transaction.
func (s *Store) Put(ctx context.Context, key Key, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO digests (path, side, auto_orient, size, mod_time, digest)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(path, side, auto_orient) DO UPDATE SET
            size = excluded.size,
            mod_time = excluded.mod_time,
            digest = excluded.digest`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.Item.Path, key.Side, key.AutoOrient, e.Item.Size, e.Item.ModTime.UnixNano(), e.Digest); err != nil {
			return fmt.Errorf("upsert %s: %w", e.Item.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

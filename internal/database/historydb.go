package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/topsites/internal/model"
)

// ErrStoreUnavailable indicates the history store could not be reached.
// Callers must treat this as a hard failure: a grid computed without the
// store would silently misrepresent the user's history.
var ErrStoreUnavailable = errors.New("history store unavailable")

// HistoryDB provides SQLite-based storage for visit history, pins,
// ignored sites, and the bookmark index.
//
// Design decision: We keep everything in a single database file rather
// than separate files per concern. A recomputation touches all four
// tables, and one file keeps snapshot reads cheap and backup trivial.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB under the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, "topsites.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: not found at %s (use CreateIfNotExists option to create)", ErrStoreUnavailable, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the location of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Visits store one row per recorded navigation event
	CREATE TABLE IF NOT EXISTS visits (
		id TEXT PRIMARY KEY,
		site_key TEXT NOT NULL,
		location TEXT NOT NULL,
		visited_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_visits_site_key ON visits(site_key);
	CREATE INDEX IF NOT EXISTS idx_visits_visited_at ON visits(visited_at);

	-- Sites aggregate visits per derived key
	CREATE TABLE IF NOT EXISTS sites (
		key TEXT PRIMARY KEY,
		location TEXT NOT NULL UNIQUE,
		title TEXT,
		count INTEGER NOT NULL DEFAULT 0,
		last_accessed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sites_count ON sites(count);

	-- Pins fix a site to a grid slot; slot numbering starts at 0
	CREATE TABLE IF NOT EXISTS pins (
		slot INTEGER PRIMARY KEY,
		site_key TEXT NOT NULL,
		location TEXT NOT NULL,
		title TEXT
	);

	-- Ignored sites never appear in the grid until restored
	CREATE TABLE IF NOT EXISTS ignored (
		site_key TEXT PRIMARY KEY,
		ignored_at INTEGER NOT NULL
	);

	-- Bookmarks back the bookmark annotation on placed records
	CREATE TABLE IF NOT EXISTS bookmarks (
		location TEXT PRIMARY KEY,
		title TEXT,
		added_at INTEGER NOT NULL
	);

	-- Single-row revision counter bumped on pin/ignore/bookmark changes
	CREATE TABLE IF NOT EXISTS revisions (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		value INTEGER NOT NULL DEFAULT 0
	);
	INSERT OR IGNORE INTO revisions (id, value) VALUES (1, 0);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RecordVisit stores a navigation event and folds it into the site
// aggregate. The title is NFC-normalized before storage. It returns the
// generated visit event ID.
func (hdb *HistoryDB) RecordVisit(ctx context.Context, location, title string, at time.Time) (string, error) {
	key := model.DeriveKey(location)
	id := uuid.NewString()
	ms := at.UnixMilli()

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO visits (id, site_key, location, visited_at) VALUES (?, ?, ?, ?)`,
		id, key, location, ms,
	); err != nil {
		return "", fmt.Errorf("failed to insert visit: %w", err)
	}

	// Aggregate upsert keyed on the derived key. last_accessed only moves
	// forward so replayed or out-of-order events cannot regress it.
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO sites (key, location, title, count, last_accessed)
	VALUES (?, ?, ?, 1, ?)
	ON CONFLICT(key) DO UPDATE SET
		count = count + 1,
		title = excluded.title,
		last_accessed = MAX(last_accessed, excluded.last_accessed)
	`, key, location, model.NormalizeTitle(title), ms); err != nil {
		return "", fmt.Errorf("failed to update site aggregate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit visit: %w", err)
	}

	return id, nil
}

// Sites returns a snapshot of every aggregated site record, keyed by the
// derived site key.
func (hdb *HistoryDB) Sites(ctx context.Context) (map[string]model.SiteRecord, error) {
	rows, err := hdb.db.QueryContext(ctx,
		`SELECT key, location, title, count, last_accessed FROM sites`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	records := make(map[string]model.SiteRecord)
	for rows.Next() {
		var r model.SiteRecord
		var title sql.NullString
		if err := rows.Scan(&r.Key, &r.Location, &title, &r.Count, &r.LastAccessed); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		r.Title = title.String
		records[r.Key] = r
	}

	return records, rows.Err()
}

// PinnedTopSites returns the pin sequence as a slice of length gridSize.
// Unpinned slots are nil. Pins at slots beyond the grid are dropped, so
// shrinking the grid in configuration never produces phantom entries.
// When history exists for a pinned site, its visit signals are attached.
func (hdb *HistoryDB) PinnedTopSites(ctx context.Context, gridSize int) ([]*model.SiteRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT p.slot, p.site_key, p.location, p.title, s.count, s.last_accessed
	FROM pins p
	LEFT JOIN sites s ON s.key = p.site_key
	WHERE p.slot < ?
	ORDER BY p.slot
	`, gridSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	pinned := make([]*model.SiteRecord, gridSize)
	for rows.Next() {
		var slot int
		var r model.SiteRecord
		var title sql.NullString
		var count, lastAccessed sql.NullInt64
		if err := rows.Scan(&slot, &r.Key, &r.Location, &title, &count, &lastAccessed); err != nil {
			return nil, fmt.Errorf("failed to scan pin: %w", err)
		}
		r.Title = title.String
		r.Count = count.Int64
		r.LastAccessed = lastAccessed.Int64
		if slot >= 0 && slot < gridSize {
			pinned[slot] = &r
		}
	}

	return pinned, rows.Err()
}

// Pin fixes a location to a grid slot. A site may hold at most one slot,
// so an existing pin of the same site elsewhere is removed first. Pinning
// over an occupied slot replaces its previous occupant.
func (hdb *HistoryDB) Pin(ctx context.Context, location, title string, slot int) error {
	if slot < 0 {
		return fmt.Errorf("invalid slot %d: must be non-negative", slot)
	}
	key := model.DeriveKey(location)

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM pins WHERE site_key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear previous pin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
	INSERT INTO pins (slot, site_key, location, title)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(slot) DO UPDATE SET
		site_key = excluded.site_key,
		location = excluded.location,
		title = excluded.title
	`, slot, key, location, model.NormalizeTitle(title)); err != nil {
		return fmt.Errorf("failed to pin: %w", err)
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// Unpin clears the pin at the given slot. Unpinning an empty slot is not
// an error.
func (hdb *HistoryDB) Unpin(ctx context.Context, slot int) error {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM pins WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("failed to unpin: %w", err)
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// IgnoredTopSites returns the set of ignored site keys.
func (hdb *HistoryDB) IgnoredTopSites(ctx context.Context) (map[string]struct{}, error) {
	rows, err := hdb.db.QueryContext(ctx, `SELECT site_key FROM ignored`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	ignored := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan ignored key: %w", err)
		}
		ignored[key] = struct{}{}
	}

	return ignored, rows.Err()
}

// Ignore excludes a location from future grids until it is restored.
func (hdb *HistoryDB) Ignore(ctx context.Context, location string) error {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO ignored (site_key, ignored_at) VALUES (?, ?)`,
		model.DeriveKey(location), time.Now().UnixMilli(),
	); err != nil {
		return fmt.Errorf("failed to ignore: %w", err)
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// Restore removes a location from the ignored set. Restoring a location
// that was never ignored is not an error.
func (hdb *HistoryDB) Restore(ctx context.Context, location string) error {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM ignored WHERE site_key = ?`, model.DeriveKey(location),
	); err != nil {
		return fmt.Errorf("failed to restore: %w", err)
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// Bookmark adds a location to the bookmark index.
func (hdb *HistoryDB) Bookmark(ctx context.Context, location, title string) error {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `
	INSERT INTO bookmarks (location, title, added_at)
	VALUES (?, ?, ?)
	ON CONFLICT(location) DO UPDATE SET title = excluded.title
	`, location, model.NormalizeTitle(title), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to bookmark: %w", err)
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveBookmark deletes a location from the bookmark index.
func (hdb *HistoryDB) RemoveBookmark(ctx context.Context, location string) error {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE location = ?`, location,
	); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if err := bumpRevision(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// Bookmarked reports whether a location is in the bookmark index.
func (hdb *HistoryDB) Bookmarked(ctx context.Context, location string) (bool, error) {
	var count int
	err := hdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE location = ?`, location,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count > 0, nil
}

// ChangeCursor returns an opaque value that changes whenever the grid
// inputs change: a new visit, or any pin, ignore, or bookmark edit.
// Pollers compare successive cursors to decide whether to recompute.
func (hdb *HistoryDB) ChangeCursor(ctx context.Context) (int64, error) {
	var visits, revision int64
	if err := hdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits`).Scan(&visits); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := hdb.db.QueryRowContext(ctx, `SELECT value FROM revisions WHERE id = 1`).Scan(&revision); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// Shifting keeps visit and revision changes from cancelling out.
	return visits<<20 | (revision & 0xFFFFF), nil
}

// bumpRevision advances the single-row revision counter inside tx.
func bumpRevision(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE revisions SET value = value + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to bump revision: %w", err)
	}
	return nil
}

// Package snapshot keeps the last fetched content model per space and
// environment in SQLite, so declarations can be regenerated offline.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/teranos/contentful-typegen/contentful"
	"github.com/teranos/contentful-typegen/errors"
)

// DefaultFile is the database file name inside the cache directory.
const DefaultFile = "snapshots.db"

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	space_id       TEXT NOT NULL,
	environment_id TEXT NOT NULL,
	fetched_at     TEXT NOT NULL,
	payload        TEXT NOT NULL,
	PRIMARY KEY (space_id, environment_id)
)`

// Snapshot is one stored content model.
type Snapshot struct {
	SpaceID       string
	EnvironmentID string
	FetchedAt     time.Time
	ContentTypes  []contentful.ContentType
}

// Store reads and writes snapshots.
type Store struct {
	db     *sql.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

// DefaultPath returns <user cache dir>/contentful-typegen/snapshots.db.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate cache directory")
	}
	return filepath.Join(dir, "contentful-typegen", DefaultFile), nil
}

// Open opens (creating if needed) the snapshot database at path.
// If logger is provided, logs database operations; otherwise operates silently.
func Open(ctx context.Context, path string, logger *zap.SugaredLogger) (*Store, error) {
	if logger != nil {
		logger.Debugw("Opening snapshot database", "path", path)
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory for %s", path)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open snapshot database")
	}
	// One connection: SQLite has a single writer and :memory: is per connection
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "failed to run %q", pragma)
		}
	}

	s := New(db, logger)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing database handle. Call Migrate before first use.
func New(db *sql.DB, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

// Migrate creates the snapshots table.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create snapshots table")
	}
	return nil
}

// Save stores contentTypes as the latest snapshot for the space and environment,
// replacing any previous one.
func (s *Store) Save(ctx context.Context, spaceID, environmentID string, contentTypes []contentful.ContentType) error {
	if contentTypes == nil {
		contentTypes = []contentful.ContentType{}
	}
	payload, err := json.Marshal(contentTypes)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	fetchedAt := s.now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (space_id, environment_id, fetched_at, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (space_id, environment_id)
		DO UPDATE SET fetched_at = excluded.fetched_at, payload = excluded.payload`,
		spaceID, environmentID, fetchedAt, string(payload),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to save snapshot for %s/%s", spaceID, environmentID)
	}

	s.logger.Debugw("Saved snapshot",
		"space_id", spaceID,
		"environment_id", environmentID,
		"count", len(contentTypes),
		"bytes", len(payload),
	)
	return nil
}

// Load returns the latest snapshot, or an errors.ErrNotFound error.
func (s *Store) Load(ctx context.Context, spaceID, environmentID string) (*Snapshot, error) {
	var fetchedAt, payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT fetched_at, payload FROM snapshots
		WHERE space_id = ? AND environment_id = ?`,
		spaceID, environmentID,
	).Scan(&fetchedAt, &payload)
	if err == sql.ErrNoRows {
		return nil, errors.WithHint(
			errors.NewNotFoundError("no snapshot for space %s, environment %s", spaceID, environmentID),
			"run once without --offline to fetch and store the content model",
		)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load snapshot for %s/%s", spaceID, environmentID)
	}

	snap := &Snapshot{SpaceID: spaceID, EnvironmentID: environmentID}
	if snap.FetchedAt, err = time.Parse(time.RFC3339Nano, fetchedAt); err != nil {
		return nil, errors.Wrapf(err, "invalid fetched_at %q", fetchedAt)
	}
	if snap.ContentTypes, err = contentful.DecodeContentTypes([]byte(payload)); err != nil {
		return nil, errors.Wrap(err, "failed to decode snapshot")
	}
	return snap, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

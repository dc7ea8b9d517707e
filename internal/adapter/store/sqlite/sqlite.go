// Package sqlite persists surface records in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"go.ngs.io/surface3d/internal/adapter/store"
	"go.ngs.io/surface3d/internal/domain"
)

//go:embed migrations/*.sql
var migrations embed.FS

// pragmas applied to every connection pool.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

// Store is a SurfaceStore backed by SQLite. Properties are stored as a
// JSON document next to a few indexed columns.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates it to the
// latest schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.MigrateUp(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// MigrateUp runs all pending migrations up to the latest version.
// Returns nil if no migrations were needed (already at latest version).
func (s *Store) MigrateUp() error {
	m, err := s.newMigrate()
	if err != nil {
		return err
	}
	// Closing m would close the underlying DB connection.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// MigrateVersion returns the current migration version and dirty state.
func (s *Store) MigrateVersion() (version uint, dirty bool, err error) {
	m, err := s.newMigrate()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (s *Store) newMigrate() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}
	return m, nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf("[migrate] "+format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// Save implements store.SurfaceStore.
func (s *Store) Save(ctx context.Context, rec store.Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record has no ID")
	}
	doc, err := json.Marshal(rec.Properties)
	if err != nil {
		return fmt.Errorf("failed to encode properties: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO surfaces (id, name, properties, version, n_lat, n_lon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			properties = excluded.properties,
			version = excluded.version,
			n_lat = excluded.n_lat,
			n_lon = excluded.n_lon,
			updated_at = excluded.updated_at`,
		rec.ID, rec.Name, string(doc), int64(rec.Version), //nolint:gosec // versions stay far below MaxInt64.
		rec.Properties.NLat, rec.Properties.NLon,
		rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save surface %s: %w", rec.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, name, properties, version, created_at, updated_at FROM surfaces`

// Load implements store.SurfaceStore.
func (s *Store) Load(ctx context.Context, id string) (store.Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("failed to load surface %s: %w", id, err)
	}
	return rec, nil
}

// List implements store.SurfaceStore.
func (s *Store) List(ctx context.Context) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list surfaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]store.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan surface: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete implements store.SurfaceStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM surfaces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete surface %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete surface %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (store.Record, error) {
	var (
		rec                  store.Record
		doc                  string
		version              int64
		createdAt, updatedAt int64
	)
	if err := sc.Scan(&rec.ID, &rec.Name, &doc, &version, &createdAt, &updatedAt); err != nil {
		return store.Record{}, err
	}

	rec.Properties = domain.DefaultProperties()
	if err := json.Unmarshal([]byte(doc), &rec.Properties); err != nil {
		return store.Record{}, fmt.Errorf("failed to decode properties of %s: %w", rec.ID, err)
	}
	rec.Version = uint64(version) //nolint:gosec // written from a uint64.
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return rec, nil
}

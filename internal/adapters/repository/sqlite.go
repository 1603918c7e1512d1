package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/okian/gradepilot/pkg/metrics"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists courses in a single SQLite table. The snapshot is
// kept as a JSON document next to the course columns.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path and migrates it.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serializes writers; SQLite gains nothing from more.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, now: newSettings(opts).now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	metrics.UpdateCoursesTotal(s.Count(ctx))
	return s, nil
}

type migration struct {
	version     int
	description string
	up          string
}

var migrations = []migration{ //nolint:gochecknoglobals // schema history
	{
		version:     1,
		description: "courses table",
		up: `CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
	},
	{
		version:     2,
		description: "index courses by creation time",
		up:          `CREATE INDEX IF NOT EXISTS idx_courses_created ON courses(created_at, id)`,
	},
}

// SchemaVersion is the schema version after all migrations are applied.
func SchemaVersion() int { return migrations[len(migrations)-1].version }

func (s *SQLiteStore) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, m.up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}
	}
	return nil
}

// Version returns the schema version recorded in the database.
func (s *SQLiteStore) Version(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v)
	return v, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (model.Course, error) {
	var (
		c                model.Course
		raw              string
		created, updated int64
	)
	if err := row.Scan(&c.ID, &c.Name, &raw, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Course{}, ErrNotFound
		}
		return model.Course{}, fmt.Errorf("failed to scan course: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &c.Snapshot); err != nil {
		return model.Course{}, fmt.Errorf("failed to decode snapshot for %s: %w", c.ID, err)
	}
	c.CreatedAt = time.Unix(0, created).UTC()
	c.UpdatedAt = time.Unix(0, updated).UTC()
	return c, nil
}

const selectCourse = `SELECT id, name, snapshot, created_at, updated_at FROM courses WHERE id = ?`

func (s *SQLiteStore) Create(ctx context.Context, c model.Course) (out model.Course, err error) {
	defer func(start time.Time) { observe("create", start, err) }(time.Now())

	if c.ID == "" {
		return model.Course{}, ErrInvalidID
	}
	stored := c.Clone()
	now := s.now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	raw, err := json.Marshal(stored.Snapshot)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, name, snapshot, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		stored.ID, stored.Name, string(raw), stored.CreatedAt.UnixNano(), stored.UpdatedAt.UnixNano())
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to insert course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Course{}, ErrConflict
	}
	metrics.UpdateCoursesTotal(s.Count(ctx))
	return stored, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (out model.Course, err error) {
	defer func(start time.Time) { observe("get", start, err) }(time.Now())
	return scanCourse(s.db.QueryRowContext(ctx, selectCourse, id))
}

func (s *SQLiteStore) Update(ctx context.Context, id string, fn Mutator) (out model.Course, err error) {
	defer func(start time.Time) { observe("update", start, err) }(time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	c, err := scanCourse(tx.QueryRowContext(ctx, selectCourse, id))
	if err != nil {
		return model.Course{}, err
	}
	createdAt := c.CreatedAt
	if err = fn(&c); err != nil {
		return model.Course{}, err
	}
	c.ID = id
	c.CreatedAt = createdAt
	c.UpdatedAt = s.now().UTC()

	raw, err := json.Marshal(c.Snapshot)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE courses SET name = ?, snapshot = ?, updated_at = ? WHERE id = ?`,
		c.Name, string(raw), c.UpdatedAt.UnixNano(), id); err != nil {
		return model.Course{}, fmt.Errorf("failed to update course: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return model.Course{}, fmt.Errorf("failed to commit update: %w", err)
	}
	return c, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("delete", start, err) }(time.Now())

	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	metrics.UpdateCoursesTotal(s.Count(ctx))
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) (out []model.CourseInfo, err error) {
	defer func(start time.Time) { observe("list", start, err) }(time.Now())

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, updated_at FROM courses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	out = []model.CourseInfo{}
	for rows.Next() {
		var (
			info    model.CourseInfo
			updated int64
		)
		if err := rows.Scan(&info.ID, &info.Name, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		info.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		metrics.RecordStoreError("count")
		return 0
	}
	return n
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

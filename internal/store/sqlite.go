package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
	"github.com/speedwagon-io/climate-indicator/internal/model"
)

// Store keeps successfully fetched readings so the last known good value
// survives restarts.
type Store interface {
	Save(ctx context.Context, reading *model.Reading) error
	Latest(ctx context.Context) (*model.Reading, error)
	History(ctx context.Context, limit int) ([]*model.Reading, error)
	Cleanup(ctx context.Context, maxAge time.Duration) error
	Close() error
}

// timeLayout is fixed width so fetched_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteStore struct {
	log *slog.Logger
	db  *sql.DB
}

func NewSQLiteStore(log *slog.Logger, dbPath string) (*SQLiteStore, error) {
	dsn := ":memory:"
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one connection keeps :memory: databases shared across calls
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{
		log: log,
		db:  db,
	}

	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS readings (
			id TEXT PRIMARY KEY,
			value REAL NOT NULL,
			source TEXT,
			fetched_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_readings_fetched_at ON readings(fetched_at);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, reading *model.Reading) error {
	query := `
		INSERT INTO readings (id, value, source, fetched_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		reading.ID,
		reading.Value,
		reading.Source,
		reading.FetchedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to store reading: %w", err)
	}

	s.log.Debug("reading stored", slog.String("id", reading.ID))
	return nil
}

// Latest returns nil, nil when nothing has been stored yet.
func (s *SQLiteStore) Latest(ctx context.Context) (*model.Reading, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, value, source, fetched_at
		FROM readings
		ORDER BY fetched_at DESC
		LIMIT 1
	`)

	reading, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}
	return reading, nil
}

// History returns up to limit readings, newest first.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]*model.Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, value, source, fetched_at
		FROM readings
		ORDER BY fetched_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []*model.Reading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			s.log.Error("failed to scan reading", sl.Err(err))
			continue
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

// Cleanup drops old history but always keeps the newest reading.
func (s *SQLiteStore) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge).Format(timeLayout)

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM readings
		WHERE fetched_at < ?
		AND id NOT IN (SELECT id FROM readings ORDER BY fetched_at DESC LIMIT 1)
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to cleanup old readings: %w", err)
	}

	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		s.log.Info("cleaned up old readings", slog.Int64("deleted", deleted))
	}

	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM readings").Scan(&count)
	return count, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(sc scanner) (*model.Reading, error) {
	var (
		r         model.Reading
		source    sql.NullString
		fetchedAt string
	)
	if err := sc.Scan(&r.ID, &r.Value, &source, &fetchedAt); err != nil {
		return nil, err
	}

	ts, err := time.Parse(timeLayout, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at %q: %w", fetchedAt, err)
	}

	r.Source = source.String
	r.FetchedAt = ts
	return &r, nil
}

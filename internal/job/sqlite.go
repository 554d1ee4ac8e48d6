package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// SQLite driver registration.
	_ "github.com/mattn/go-sqlite3"

	"github.com/videogen/videogen-api/internal/ark"
)

// Compile-time check that SQLiteRepository implements Repository.
var _ Repository = (*SQLiteRepository)(nil)

// sqliteTimeLayout is a fixed-width RFC 3339 layout. Fractional seconds are
// always printed to nine digits so that lexicographic ordering of the stored
// text matches chronological ordering (RFC3339Nano trims trailing zeros and
// would break ORDER BY for sub-second timestamps).
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteRepository is a file-backed implementation of Repository on top of
// database/sql with the mattn/go-sqlite3 driver. The schema is created on
// construction if it does not exist. Each operation is independently
// committed; there are no transactions spanning multiple jobs.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLiteRepository opens (or creates) the SQLite database at path and
// ensures the jobs table exists.
func OpenSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return repo, nil
}

// NewSQLiteRepository wraps an existing database handle and ensures the
// jobs table exists. Useful for tests that manage the handle themselves.
func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	repo := &SQLiteRepository{db: db}
	if err := repo.initSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return repo, nil
}

// Close closes the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) initSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS video_jobs (
			id TEXT PRIMARY KEY,
			prompt TEXT NOT NULL,
			aspect_ratio TEXT NOT NULL,
			resolution TEXT NOT NULL,
			duration INTEGER NOT NULL,
			background_music INTEGER NOT NULL,
			status TEXT NOT NULL,
			video_url TEXT NOT NULL DEFAULT '',
			thumbnail_url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
	`)
	return err
}

// Save persists a job, overwriting any existing row with the same ID.
func (r *SQLiteRepository) Save(ctx context.Context, job *Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO video_jobs (
			id, prompt, aspect_ratio, resolution, duration, background_music,
			status, video_url, thumbnail_url, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			prompt = excluded.prompt,
			aspect_ratio = excluded.aspect_ratio,
			resolution = excluded.resolution,
			duration = excluded.duration,
			background_music = excluded.background_music,
			status = excluded.status,
			video_url = excluded.video_url,
			thumbnail_url = excluded.thumbnail_url,
			created_at = excluded.created_at
	`,
		job.ID,
		job.Prompt,
		job.AspectRatio,
		job.Resolution,
		job.Duration,
		job.BackgroundMusic,
		string(job.Status),
		job.VideoURL,
		job.ThumbnailURL,
		job.CreatedAt.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("save job: %w", err)
	}
	return nil
}

// FindByID retrieves a job by its ID.
func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, prompt, aspect_ratio, resolution, duration, background_music,
		       status, video_url, thumbnail_url, created_at
		FROM video_jobs WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return job, nil
}

// List returns all jobs ordered by creation time, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, prompt, aspect_ratio, resolution, duration, background_music,
		       status, video_url, thumbnail_url, created_at
		FROM video_jobs ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return result, nil
}

// Delete removes a job by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM video_jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

// scanner abstracts over *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*Job, error) {
	var (
		j         Job
		status    string
		createdAt string
	)
	if err := s.Scan(
		&j.ID,
		&j.Prompt,
		&j.AspectRatio,
		&j.Resolution,
		&j.Duration,
		&j.BackgroundMusic,
		&status,
		&j.VideoURL,
		&j.ThumbnailURL,
		&createdAt,
	); err != nil {
		return nil, err
	}

	j.Status = ark.Status(status)

	ts, err := time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	j.CreatedAt = ts

	return &j, nil
}

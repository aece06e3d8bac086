// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

// Package history persists per-user watch history in DuckDB. It records
// playback starts, tracks resume positions, and serves the history
// listing the player shows on its home screen.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"github.com/tomtom215/stashplayer/internal/config"
	"github.com/tomtom215/stashplayer/internal/logging"
	"github.com/tomtom215/stashplayer/internal/metrics"
)

// ErrNotFound is returned when a watch record does not exist.
var ErrNotFound = errors.New("watch record not found")

// Entry is one watch-history record.
type Entry struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	SceneID    string    `json:"scene_id"`
	SceneTitle string    `json:"scene_title"`
	Position   float64   `json:"position"`
	Duration   float64   `json:"duration"`
	Completed  bool      `json:"completed"`
	StartedAt  time.Time `json:"started_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Query narrows a history listing. Zero values mean "no constraint".
type Query struct {
	Username string
	SceneID  string
	Since    time.Time
	Limit    int
	Offset   int
}

// Store wraps the DuckDB connection holding watch history.
type Store struct {
	conn *sql.DB
}

// completedThreshold marks a watch as completed once the resume position
// passes this fraction of the scene duration.
const completedThreshold = 0.9

const defaultListLimit = 50

// New opens (creating if needed) the history database and initializes
// the schema.
func New(cfg *config.DatabaseConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "512MB"
	}

	// Ensure the parent directory exists for the database file. 0750 per
	// gosec G301.
	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
		}
	}

	// Disable auto-install/auto-load to prevent hangs in restricted
	// network environments; the schema only needs core DuckDB.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, maxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// DuckDB is an in-process database; a single writer connection avoids
	// write-write conflicts.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.initialize(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Failed to close database after init failure")
		}
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("path", cfg.Path).Msg("Watch history database ready")
	return s, nil
}

// initialize creates the schema if it does not exist.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS watch_history (
			id          VARCHAR PRIMARY KEY,
			username    VARCHAR NOT NULL,
			scene_id    VARCHAR NOT NULL,
			scene_title VARCHAR NOT NULL DEFAULT '',
			position    DOUBLE NOT NULL DEFAULT 0,
			duration    DOUBLE NOT NULL DEFAULT 0,
			completed   BOOLEAN NOT NULL DEFAULT false,
			started_at  TIMESTAMP NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_watch_history_user
			ON watch_history (username, updated_at);
		CREATE INDEX IF NOT EXISTS idx_watch_history_scene
			ON watch_history (username, scene_id);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// RecordWatch inserts a new watch record for a playback start and
// returns it. Each playback session gets its own record; resume
// positions update the latest record via UpdateProgress.
func (s *Store) RecordWatch(ctx context.Context, username, sceneID, sceneTitle string, duration float64) (*Entry, error) {
	now := time.Now().UTC()
	entry := &Entry{
		ID:         uuid.NewString(),
		Username:   username,
		SceneID:    sceneID,
		SceneTitle: sceneTitle,
		Duration:   duration,
		StartedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO watch_history (id, username, scene_id, scene_title, position, duration, completed, started_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, false, ?, ?)`,
		entry.ID, entry.Username, entry.SceneID, entry.SceneTitle, entry.Duration, entry.StartedAt, entry.UpdatedAt,
	)
	if err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("record", "error").Inc()
		return nil, fmt.Errorf("failed to record watch: %w", err)
	}

	metrics.HistoryWritesTotal.WithLabelValues("record", "ok").Inc()
	return entry, nil
}

// UpdateProgress stores the resume position of a watch record. The
// record flips to completed once the position passes 90% of the scene
// duration; it never flips back. The update is scoped to the owning
// username, so a record belonging to another user reports ErrNotFound.
func (s *Store) UpdateProgress(ctx context.Context, username, id string, position float64) error {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE watch_history
		SET position = ?,
		    completed = completed OR (duration > 0 AND ? >= duration * ?),
		    updated_at = ?
		WHERE id = ? AND username = ?`,
		position, position, completedThreshold, time.Now().UTC(), id, username,
	)
	if err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("progress", "error").Inc()
		return fmt.Errorf("failed to update progress: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	metrics.HistoryWritesTotal.WithLabelValues("progress", "ok").Inc()
	return nil
}

// List returns history entries matching the query, newest first, with
// the total count before paging.
func (s *Store) List(ctx context.Context, q Query) ([]Entry, int, error) {
	start := time.Now()
	defer func() {
		metrics.HistoryQueryDuration.WithLabelValues("list").Observe(time.Since(start).Seconds())
	}()

	where := "WHERE 1=1"
	args := make([]any, 0, 4)

	if q.Username != "" {
		where += " AND username = ?"
		args = append(args, q.Username)
	}
	if q.SceneID != "" {
		where += " AND scene_id = ?"
		args = append(args, q.SceneID)
	}
	if !q.Since.IsZero() {
		where += " AND updated_at >= ?"
		args = append(args, q.Since.UTC())
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM watch_history " + where
	if err := s.conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	listQuery := `
		SELECT id, username, scene_id, scene_title, position, duration, completed, started_at, updated_at
		FROM watch_history ` + where + `
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?`
	rows, err := s.conn.QueryContext(ctx, listQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Username, &e.SceneID, &e.SceneTitle, &e.Position, &e.Duration, &e.Completed, &e.StartedAt, &e.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate history rows: %w", err)
	}

	return entries, total, nil
}

// ResumePosition returns the most recent incomplete position for a
// user/scene pair, or 0 when the scene was never started or was watched
// to completion.
func (s *Store) ResumePosition(ctx context.Context, username, sceneID string) (float64, error) {
	start := time.Now()
	defer func() {
		metrics.HistoryQueryDuration.WithLabelValues("resume").Observe(time.Since(start).Seconds())
	}()

	var position float64
	err := s.conn.QueryRowContext(ctx, `
		SELECT position
		FROM watch_history
		WHERE username = ? AND scene_id = ? AND NOT completed
		ORDER BY updated_at DESC
		LIMIT 1`,
		username, sceneID,
	).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query resume position: %w", err)
	}

	return position, nil
}

// DeleteForUser removes a user's entire history. Used when an admin
// deletes the account.
func (s *Store) DeleteForUser(ctx context.Context, username string) (int64, error) {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM watch_history WHERE username = ?", username)
	if err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("delete", "error").Inc()
		return 0, fmt.Errorf("failed to delete history: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	metrics.HistoryWritesTotal.WithLabelValues("delete", "ok").Inc()
	return rows, nil
}

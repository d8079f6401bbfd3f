package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const timeLayout = time.RFC3339Nano

type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) StartRun(run Run) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (id, feed_path, blog, dry_run, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.FeedPath, run.Blog, run.DryRun, run.StartedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

func (r *HistoryRepository) FinishRun(runID string, submitted, skipped, failed int, finishedAt time.Time) error {
	result, err := r.db.Exec(`
		UPDATE runs
		SET finished_at = ?, submitted = ?, skipped = ?, failed = ?
		WHERE id = ?
	`, finishedAt.UTC().Format(timeLayout), submitted, skipped, failed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

func (r *HistoryRepository) RecordAttempt(attempt Attempt) error {
	_, err := r.db.Exec(`
		INSERT INTO attempts (run_id, guid, post_type, status, permalink, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, attempt.RunID, attempt.GUID, attempt.PostType, string(attempt.Status),
		attempt.Permalink, attempt.Error, attempt.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

func (r *HistoryRepository) GetRun(runID string) (*Run, error) {
	var run Run
	var startedAt string
	var finishedAt sql.NullString

	err := r.db.QueryRow(`
		SELECT id, feed_path, blog, dry_run, started_at, finished_at, submitted, skipped, failed
		FROM runs
		WHERE id = ?
	`, runID).Scan(&run.ID, &run.FeedPath, &run.Blog, &run.DryRun, &startedAt, &finishedAt,
		&run.Submitted, &run.Skipped, &run.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("failed to parse run start: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(timeLayout, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run finish: %w", err)
		}
		run.FinishedAt = &t
	}

	return &run, nil
}

func (r *HistoryRepository) GetAttempts(runID string) ([]Attempt, error) {
	rows, err := r.db.Query(`
		SELECT run_id, guid, post_type, status, permalink, error, created_at
		FROM attempts
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var attempt Attempt
		var status, createdAt string
		err := rows.Scan(&attempt.RunID, &attempt.GUID, &attempt.PostType, &status,
			&attempt.Permalink, &attempt.Error, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt row: %w", err)
		}
		attempt.Status = AttemptStatus(status)
		if attempt.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse attempt time: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attempt rows: %w", err)
	}

	return attempts, nil
}

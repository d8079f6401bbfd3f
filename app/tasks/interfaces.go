package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/soublr/app/database"
	"github.com/lysyi3m/soublr/app/post"
)

// Poster submits a post to a blog and returns the id the remote side
// assigned to it. Implemented by tumblr.Client.
type Poster interface {
	CreatePost(ctx context.Context, blog string, p post.Post) (string, error)
}

// ProcessedLog is the idempotency log consulted and updated per item.
// Implemented by processed.Log.
type ProcessedLog interface {
	Get(guid string) (string, bool)
	Record(guid, permalink string)
	Len() int
}

// HistoryRecorder persists a run and its per-item attempts.
// Implemented by database.HistoryRepository.
type HistoryRecorder interface {
	StartRun(run database.Run) error
	RecordAttempt(attempt database.Attempt) error
	FinishRun(runID string, submitted, skipped, failed int, finishedAt time.Time) error
}

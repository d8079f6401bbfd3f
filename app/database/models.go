package database

import "time"

type AttemptStatus string

const (
	StatusPosted      AttemptStatus = "posted"
	StatusDuplicate   AttemptStatus = "duplicate"
	StatusUnsupported AttemptStatus = "unsupported"
	StatusFailed      AttemptStatus = "failed"
	StatusDryRun      AttemptStatus = "dry_run"
)

// Run is one invocation of the migrator
type Run struct {
	ID         string
	FeedPath   string
	Blog       string
	DryRun     bool
	StartedAt  time.Time
	FinishedAt *time.Time
	Submitted  int
	Skipped    int
	Failed     int
}

// Attempt records what happened to one feed item during a run
type Attempt struct {
	RunID     string
	GUID      string
	PostType  string
	Status    AttemptStatus
	Permalink string
	Error     string
	CreatedAt time.Time
}

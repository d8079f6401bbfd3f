package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/soublr/app/database"
	"github.com/lysyi3m/soublr/app/feed"
	"github.com/lysyi3m/soublr/app/metrics"
	"github.com/lysyi3m/soublr/app/post"
)

var errMissingGUID = errors.New("item has neither guid nor link")

var _ TaskInterface = (*MigrateFeedTask)(nil)

// Result counts what happened to the items of one run
type Result struct {
	Before      int
	Submitted   int
	Duplicates  int
	Unsupported int
	Failed      int
	DryRun      int
}

func (r Result) Total() int {
	return r.Before + r.Submitted
}

func (r Result) Skipped() int {
	return r.Duplicates + r.Unsupported + r.DryRun
}

func (r Result) Summary() string {
	return fmt.Sprintf("%d posts submitted this run. %d total (%d before)", r.Submitted, r.Total(), r.Before)
}

type MigrateFeedTask struct {
	Task
	Items  []feed.Item
	Blog   string
	DryRun bool
	Result Result

	mapper  *post.Mapper
	poster  Poster
	log     ProcessedLog
	history HistoryRecorder
	metrics *metrics.Metrics
}

// NewMigrateFeedTask builds the task. history may be nil.
func NewMigrateFeedTask(feedPath string, items []feed.Item, blog string, dryRun bool, mapper *post.Mapper, poster Poster, log ProcessedLog, history HistoryRecorder, m *metrics.Metrics) *MigrateFeedTask {
	return &MigrateFeedTask{
		Task:    NewTask(TaskTypeMigrateFeed, feedPath),
		Items:   items,
		Blog:    blog,
		DryRun:  dryRun,
		mapper:  mapper,
		poster:  poster,
		log:     log,
		history: history,
		metrics: m,
	}
}

// Execute walks the items oldest first and submits every one not yet in the
// processed log. Each successful submission is recorded in the log before the
// next item is touched. Per-item failures are logged and skipped; only
// cancellation of ctx stops the run early, in which case Result still holds
// the counts so far.
func (t *MigrateFeedTask) Execute(ctx context.Context) error {
	t.Start()
	t.Result = Result{Before: t.log.Len()}

	if t.history != nil {
		run := database.Run{
			ID:        t.ID,
			FeedPath:  t.FeedPath,
			Blog:      t.Blog,
			DryRun:    t.DryRun,
			StartedAt: *t.StartedAt,
		}
		if err := t.history.StartRun(run); err != nil {
			slog.Warn("Failed to record run start, history disabled", "run", t.ID, "error", err)
			t.history = nil
		}
	}

	var err error
	for _, item := range t.Items {
		if err = ctx.Err(); err != nil {
			break
		}
		t.migrateItem(ctx, item)
	}

	t.finish()

	slog.Info("Task completed",
		"type", t.Type,
		"run", t.ID,
		"feed", t.FeedPath,
		"duration", t.GetDuration(),
		"total", len(t.Items),
		"submitted", t.Result.Submitted,
		"duplicates", t.Result.Duplicates,
		"unsupported", t.Result.Unsupported,
		"failed", t.Result.Failed)

	if err != nil {
		return fmt.Errorf("migration interrupted: %w", err)
	}
	return nil
}

func (t *MigrateFeedTask) migrateItem(ctx context.Context, item feed.Item) {
	if item.GUID == "" {
		slog.Warn("Posting failed, skipping", "title", item.Title, "error", errMissingGUID)
		t.Result.Failed++
		t.observe(item, item.Attributes.Type, database.StatusFailed, "", errMissingGUID)
		return
	}

	if permalink, ok := t.log.Get(item.GUID); ok {
		slog.Info("Skipping, already posted", "guid", item.GUID, "at", permalink)
		t.Result.Duplicates++
		t.observe(item, item.Attributes.Type, database.StatusDuplicate, permalink, nil)
		return
	}

	p, err := t.mapper.Run(item)
	if err != nil {
		slog.Warn("Unsupported post type, skipping", "type", item.Attributes.Type, "guid", item.GUID)
		t.Result.Unsupported++
		t.observe(item, item.Attributes.Type, database.StatusUnsupported, "", err)
		return
	}

	slug := p.Metadata().Slug

	if t.DryRun {
		slog.Info("Dry run, not submitting", "type", p.Type(), "slug", slug, "guid", item.GUID)
		slog.Debug("Post fields", "guid", item.GUID, "fields", p.Fields())
		t.Result.DryRun++
		t.observe(item, string(p.Type()), database.StatusDryRun, "", nil)
		return
	}

	id, err := t.poster.CreatePost(ctx, t.Blog, p)
	if err != nil {
		slog.Warn("Posting failed, skipping", "slug", slug, "guid", item.GUID, "error", err)
		t.Result.Failed++
		t.observe(item, string(p.Type()), database.StatusFailed, "", err)
		return
	}

	permalink := fmt.Sprintf("%s/post/%s", t.Blog, id)
	t.log.Record(item.GUID, permalink)
	t.Result.Submitted++

	slog.Info("Posted", "type", p.Type(), "slug", slug, "permalink", permalink)
	t.observe(item, string(p.Type()), database.StatusPosted, permalink, nil)
}

func (t *MigrateFeedTask) observe(item feed.Item, postType string, status database.AttemptStatus, permalink string, cause error) {
	t.metrics.Observe(string(status))

	if t.history == nil {
		return
	}

	attempt := database.Attempt{
		RunID:     t.ID,
		GUID:      item.GUID,
		PostType:  postType,
		Status:    status,
		Permalink: permalink,
		CreatedAt: time.Now(),
	}
	if cause != nil {
		attempt.Error = cause.Error()
	}

	if err := t.history.RecordAttempt(attempt); err != nil {
		slog.Warn("Failed to record attempt", "run", t.ID, "guid", item.GUID, "error", err)
	}
}

func (t *MigrateFeedTask) finish() {
	finishedAt := time.Now()

	t.metrics.SetLogEntries(t.log.Len())
	t.metrics.Finish(t.GetDuration(), finishedAt)

	if t.history == nil {
		return
	}

	if err := t.history.FinishRun(t.ID, t.Result.Submitted, t.Result.Skipped(), t.Result.Failed, finishedAt); err != nil {
		slog.Warn("Failed to record run finish", "run", t.ID, "error", err)
	}
}

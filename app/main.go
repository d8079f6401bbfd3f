package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lysyi3m/soublr/app/cfg"
	"github.com/lysyi3m/soublr/app/database"
	"github.com/lysyi3m/soublr/app/feed"
	"github.com/lysyi3m/soublr/app/metrics"
	"github.com/lysyi3m/soublr/app/post"
	"github.com/lysyi3m/soublr/app/processed"
	"github.com/lysyi3m/soublr/app/prompt"
	"github.com/lysyi3m/soublr/app/tasks"
	"github.com/lysyi3m/soublr/app/tumblr"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		// A second signal gets the default behaviour.
		<-ctx.Done()
		stop()
	}()

	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) (code int) {
	config, err := cfg.Load(args)
	if err != nil {
		if errors.Is(err, cfg.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			return exitUsage
		}
		slog.Error("Failed to load configuration", "error", err)
		return exitFailure
	}
	if config == nil {
		return exitOK
	}
	if config.ShowVersion {
		fmt.Fprintf(stdout, "soublr %s\n", config.Version)
		return exitOK
	}

	setupLogger(config.Debug)

	items, err := feed.NewParser().ReadFile(config.FeedPath)
	if err != nil {
		slog.Error("Failed to read feed", "path", config.FeedPath, "error", err)
		return exitUsage
	}

	creds, err := tumblr.LoadCredentials(config.CredentialsPath)
	if err != nil {
		slog.Error("Failed to load credentials", "path", config.CredentialsPath, "error", err)
		return exitFailure
	}

	client := tumblr.NewClient(creds.HTTPClient(ctx, config.GetTimeout()), config.APIURL, config.UserAgent)

	var blog string
	if !config.DryRun {
		blog, err = client.Identity(ctx)
		if err != nil {
			slog.Error("Failed to resolve blog", "error", err)
			return exitFailure
		}
	}

	log, existed, err := processed.Load(config.LogFile)
	if err != nil {
		slog.Error("Failed to load log", "error", err)
		return exitFailure
	}

	if !existed && !config.DryRun {
		fmt.Fprintf(stdout, "No previous posts found in %s\n", log.Path())
		ok, err := prompt.Confirm(ctx, stdin, stdout, "All items will be posted! Continue?", config.Assume)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Failed to confirm", "error", err)
			return exitFailure
		}
		if !ok || ctx.Err() != nil {
			fmt.Fprintln(stdout, "Aborted.")
			return exitFailure
		}
	}

	// The log is saved on every way out once acquired. A dry run never
	// touches it.
	if !config.DryRun {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Unexpected panic", "panic", r)
				code = exitFailure
			}
			if err := log.Close(); err != nil {
				code = exitFailure
			}
		}()
	}

	var history tasks.HistoryRecorder
	if config.HistoryDB != "" {
		db, err := database.Open(config.HistoryDB)
		if err != nil {
			slog.Error("Failed to open history database", "path", config.HistoryDB, "error", err)
			return exitFailure
		}
		defer db.Close()
		history = database.NewHistoryRepository(db)
	}

	m := metrics.New()
	mapper := post.NewMapper(config.Footer, config.PlatformTag)

	migrate := tasks.NewMigrateFeedTask(config.FeedPath, items, blog, config.DryRun, mapper, client, log, history, m)
	execErr := execute(ctx, migrate)

	fmt.Fprintln(stdout, migrate.Result.Summary())

	if config.MetricsFile != "" {
		if err := m.WriteToTextfile(config.MetricsFile); err != nil {
			slog.Warn("Failed to write metrics", "error", err)
		}
	}

	if execErr != nil {
		slog.Error("Migration stopped", "error", execErr)
		return exitFailure
	}

	return exitOK
}

func execute(ctx context.Context, task tasks.TaskInterface) error {
	slog.Info("Starting task",
		"id", task.GetID(),
		"type", task.GetType(),
		"feed", task.GetFeedPath())

	return task.Execute(ctx)
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

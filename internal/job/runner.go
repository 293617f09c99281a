// Package job orchestrates one archive crawl: the running-job guard, the
// job-scoped log, strategy selection, and the progress bookkeeping on every
// exit path.
package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Khaliq12345/news-archive-bot/internal/ai"
	"github.com/Khaliq12345/news-archive-bot/internal/browser"
	"github.com/Khaliq12345/news-archive-bot/internal/config"
	"github.com/Khaliq12345/news-archive-bot/internal/extract"
	"github.com/Khaliq12345/news-archive-bot/internal/fetcher"
	"github.com/Khaliq12345/news-archive-bot/internal/paginate"
	"github.com/Khaliq12345/news-archive-bot/internal/storage"
	"github.com/Khaliq12345/news-archive-bot/internal/store"
	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// Runner executes crawl jobs. One Runner per process; each job is expected
// to run inside its own process so external cancellation can kill it
// without corrupting sibling jobs.
type Runner struct {
	cfg      *config.Config
	progress *store.ProgressStore
	logger   *slog.Logger
}

// NewRunner creates a Runner over the configured progress file.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		progress: store.NewProgressStore(cfg.Paths.ProgressFile),
		logger:   logger,
	}
}

// Progress exposes the progress store for status inspection.
func (r *Runner) Progress() *store.ProgressStore { return r.progress }

// Cancel kills the job for jobKey best-effort and marks it failed.
func (r *Runner) Cancel(jobKey string) error { return r.progress.Cancel(jobKey) }

// Run validates the at-most-one-running invariant, drives the selected
// strategy to completion, and records the terminal status on every exit
// path. It returns the number of persisted records.
func (r *Runner) Run(ctx context.Context, params types.JobParameters) (saved int, err error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	key, err := types.JobKey(params.BaseURL)
	if err != nil {
		return 0, err
	}
	window, err := extract.ParseWindow(params.OldestDate, params.EarliestDate)
	if err != nil {
		return 0, err
	}

	// The concurrency guard: a running entry for this domain rejects the
	// start synchronously, mutating nothing.
	if err := r.progress.Begin(key, params, os.Getpid()); err != nil {
		return 0, err
	}
	status := store.StatusFailed
	defer func() {
		if ferr := r.progress.Finish(key, status); ferr != nil {
			r.logger.Error("progress update failed", "job", key, "error", ferr)
		}
	}()

	logFile, jobLog, err := openJobLog(r.cfg, key)
	if err != nil {
		return 0, err
	}
	defer logFile.Close()
	jobLog.Info("job started",
		"domain", storage.TableName(params.BaseURL),
		"strategy", params.Strategy,
		"archive", params.ArchiveURL,
	)

	strat, err := paginate.Select(params.Strategy)
	if err != nil {
		jobLog.Error("strategy selection failed", "error", err)
		return 0, err
	}

	seen, err := store.OpenSeenURLs(r.cfg.Paths.CacheDir, key)
	if err != nil {
		jobLog.Error("open url ledger failed", "error", err)
		return 0, err
	}
	defer seen.Close()
	jobLog.Info("url ledger loaded", "known_urls", seen.Len())

	session, err := browser.New(r.cfg.Browser, jobLog)
	if err != nil {
		jobLog.Error("browser launch failed", "error", err)
		return 0, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			jobLog.Warn("browser close failed", "error", cerr)
		}
	}()

	sink, err := r.openSink(ctx, jobLog)
	if err != nil {
		jobLog.Error("storage init failed", "error", err)
		return 0, err
	}
	defer sink.Close(context.WithoutCancel(ctx))

	llm := ai.New(r.cfg.AI, jobLog)

	// Chunk dedup only pays off when the listing is re-rendered and
	// extraction is delegated to the model; selector scraping is cheap.
	var chunks *store.ChunkSet
	if params.LLMOnly() {
		chunks = store.NewChunkSet()
	}

	crawl := &paginate.Crawl{
		Params:   params,
		Window:   window,
		Page:     session,
		Lister:   extract.NewListingExtractor(params.ListingSelector, llm, chunks, jobLog),
		Details:  extract.NewDetailExtractor(fetcher.New(r.cfg.Fetcher, jobLog), llm, seen, params.DetailSelector, jobLog),
		Sink:     sink,
		Table:    storage.TableName(params.BaseURL),
		Logger:   jobLog,
		StepWait: r.cfg.Browser.StepWait,
	}

	saved, err = strat.Run(ctx, crawl)
	if err != nil {
		jobLog.Error("job failed", "saved", saved, "error", err)
		return saved, err
	}

	status = store.StatusSuccess
	jobLog.Info("job succeeded", "saved", saved)
	return saved, nil
}

func (r *Runner) openSink(ctx context.Context, logger *slog.Logger) (storage.Sink, error) {
	switch r.cfg.Storage.Type {
	case "csv", "":
		return storage.NewCSVSink(r.cfg.Storage.OutputDir, logger)
	case "mongodb", "mongo":
		return storage.NewMongoSink(ctx, r.cfg.Storage.MongoURI, r.cfg.Storage.MongoDatabase, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", r.cfg.Storage.Type)
	}
}

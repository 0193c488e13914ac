package api

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/schemascan/schemascan/internal/crawler"
	"github.com/schemascan/schemascan/internal/schema"
	"github.com/schemascan/schemascan/internal/storage/memory"
)

// Runner executes one goroutine per crawl job, streams its progress and items
// into the job store, and tracks cancel functions so the API can stop a
// running job.
type Runner struct {
	crawler *crawler.Crawler
	jobs    *memory.JobStore
	logger  *zap.Logger

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewRunner constructs a Runner.
func NewRunner(c *crawler.Crawler, jobs *memory.JobStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		crawler: c,
		jobs:    jobs,
		logger:  logger,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start launches the crawl for an already-created job and returns
// immediately. The job moves through running into a terminal state matching
// the crawl outcome.
func (r *Runner) Start(job memory.Job) {
	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancels[job.ID] = cancel
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			delete(r.cancels, job.ID)
			r.mu.Unlock()
			cancel()
		}()

		if err := r.jobs.SetRunning(job.ID); err != nil {
			r.logger.Error("failed to mark job running", zap.String("job_id", job.ID), zap.Error(err))
			return
		}

		hooks := crawler.Hooks{
			OnProgress: func(pagesCrawled, itemsFound int) {
				if err := r.jobs.SetProgress(job.ID, pagesCrawled, itemsFound); err != nil {
					r.logger.Warn("failed to record progress", zap.String("job_id", job.ID), zap.Error(err))
				}
			},
			OnData: func(items []schema.Item) {
				if err := r.jobs.AppendItems(job.ID, items); err != nil {
					r.logger.Warn("failed to record items", zap.String("job_id", job.ID), zap.Error(err))
				}
			},
		}

		result, err := r.crawler.Run(ctx, job.Domain, job.Options, hooks)
		errText := ""
		if err != nil {
			errText = err.Error()
		}
		if serr := r.jobs.SetProgress(job.ID, result.PagesCrawled, result.ItemsFound); serr != nil {
			r.logger.Warn("failed to record final progress", zap.String("job_id", job.ID), zap.Error(serr))
		}
		if ferr := r.jobs.Finish(job.ID, jobStatusFor(result.Status), errText); ferr != nil {
			r.logger.Error("failed to finish job", zap.String("job_id", job.ID), zap.Error(ferr))
		}
		r.logger.Info("crawl job finished",
			zap.String("job_id", job.ID),
			zap.String("status", string(result.Status)),
			zap.Int("pages_crawled", result.PagesCrawled),
			zap.Int("items_found", result.ItemsFound),
		)
	}()
}

// Cancel requests cooperative cancellation of a running job. It reports
// whether the job was running.
func (r *Runner) Cancel(jobID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cancel, ok := r.cancels[jobID]
	if !ok {
		return false
	}
	cancel()
	return true
}

func jobStatusFor(status crawler.Status) memory.JobStatus {
	switch status {
	case crawler.StatusCompleted:
		return memory.JobCompleted
	case crawler.StatusStopped:
		return memory.JobStopped
	default:
		return memory.JobError
	}
}

package transfer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"fathomsync/internal/logging"
)

// Destination receives fetched bytes. Contains lets the pipeline skip tasks
// whose output already exists without spending a fetch on them.
type Destination interface {
	Contains(task Task) bool
	Deliver(ctx context.Context, task Task, payload Payload) error
}

// Pipeline drives a batch of tasks through fetch and delivery under a shared
// concurrency budget.
type Pipeline struct {
	fetcher *Fetcher
	dest    Destination
	budget  *Budget
	logger  *slog.Logger
}

// NewPipeline assembles a pipeline. A nil logger is replaced with a no-op.
func NewPipeline(fetcher *Fetcher, dest Destination, budget *Budget, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		dest:    dest,
		budget:  budget,
		logger:  logging.NewComponentLogger(logger, "transfer"),
	}
}

// Run processes every task, admitting at most the budget's limit
// concurrently. Failures are recorded and logged but never abort the batch.
// Context cancellation stops admission of new tasks; tasks already admitted
// run their I/O to completion.
func (p *Pipeline) Run(ctx context.Context, tasks []Task) Summary {
	runID := uuid.NewString()
	logger := p.logger.With(logging.String("run_id", runID))
	logger.Info("transfer run starting",
		logging.Int("tasks", len(tasks)),
		logging.Int("concurrency", p.budget.Limit()))

	results := make([]Result, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		if err := p.budget.Acquire(ctx); err != nil {
			results[i] = Result{Task: task, Outcome: OutcomeFailed, Err: err}
			logger.Warn("task not admitted", logging.String("task", task.ID), logging.Error(err))
			continue
		}
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			defer p.budget.Release()
			results[i] = p.runTask(ctx, logger, task)
		}(i, task)
	}
	wg.Wait()

	summary := Summary{RunID: runID, Results: results}
	for _, res := range results {
		switch res.Outcome {
		case OutcomeDelivered:
			summary.Delivered++
		case OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	logger.Info("transfer run complete",
		logging.Int("delivered", summary.Delivered),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed))
	return summary
}

func (p *Pipeline) runTask(ctx context.Context, logger *slog.Logger, task Task) Result {
	started := time.Now()

	if p.dest.Contains(task) {
		logger.Debug("destination already has output", logging.String("task", task.ID))
		return Result{Task: task, Outcome: OutcomeSkipped, Duration: time.Since(started)}
	}

	payload, err := p.fetcher.Fetch(ctx, task)
	if err != nil {
		logger.Warn("fetch failed",
			logging.String("task", task.ID),
			logging.String("url", task.Source),
			logging.Error(err))
		return Result{Task: task, Outcome: OutcomeFailed, Err: err, Duration: time.Since(started)}
	}

	if err := p.dest.Deliver(ctx, task, payload); err != nil {
		logger.Warn("delivery failed",
			logging.String("task", task.ID),
			logging.String("key", task.Key),
			logging.Error(err))
		return Result{Task: task, Outcome: OutcomeFailed, Err: err, Duration: time.Since(started)}
	}

	logger.Debug("task delivered",
		logging.String("task", task.ID),
		logging.String("key", task.Key),
		logging.Int64("bytes", int64(len(payload.Body))))
	return Result{
		Task:     task,
		Outcome:  OutcomeDelivered,
		Bytes:    int64(len(payload.Body)),
		Duration: time.Since(started),
	}
}

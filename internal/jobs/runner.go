package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the job runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
	}
}

// Runner manages background job processing. Jobs are held in an in-memory
// queue only; a job accepted by Submit is lost if the process dies before a
// worker picks it up. That is an acceptable trade for the work handled here
// (email delivery), where every flow has a user-driven way to retrigger it.
type Runner struct {
	jobChan    chan Job
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(job Job, err error)
}

// NewRunner creates a new Runner
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		jobChan:    make(chan Job, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		wg:         sync.WaitGroup{},
		config:     config,
		logger:     logger,
		errHandler: func(job Job, err error) {
			// Default error handler just logs the error
			logger.Error("job execution failed",
				"job_id", job.ID(),
				"job_type", job.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *Runner) SetErrorHandler(handler func(job Job, err error)) {
	r.errHandler = handler
}

// Submit adds a new job to the queue. It never blocks: a full queue is
// reported as an error so callers can decide how to degrade.
func (r *Runner) Submit(job Job) error {
	select {
	case r.jobChan <- job:
		return nil
	default:
		return fmt.Errorf("job queue is full, try again later")
	}
}

// Start initializes the worker pool and begins processing jobs
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Stop gracefully shuts down the job runner
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.jobChan)
}

// worker processes jobs from the queue
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case job, ok := <-r.jobChan:
			if !ok {
				r.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}

			r.processJob(job, id)
		}
	}
}

// processJob handles execution of a single job
func (r *Runner) processJob(job Job, workerID int) {
	ctx := context.Background()
	logger := r.logger.With(
		"job_id", job.ID(),
		"job_type", job.Type(),
		"worker_id", workerID,
	)

	logger.Debug("processing job")

	if err := job.Execute(ctx); err != nil {
		logger.Error("job execution failed", "error", err)
		r.errHandler(job, err)
		return
	}

	logger.Debug("job completed successfully")
}

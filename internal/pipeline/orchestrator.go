package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/lexproc/internal/analyze"
	"github.com/dgallion1/lexproc/internal/config"
)

// ErrQueueFull is returned by Submit when no worker slot is free.
var ErrQueueFull = errors.New("job queue is full")

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("pipeline is stopped")

// Orchestrator runs uploaded documents through the analyzer on a bounded
// worker pool.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	analyzer *analyze.Analyzer
	stats    *AnalysisStats
	log      *slog.Logger
	cfg      config.Config

	mu      sync.Mutex // guards stopped and sends on queue
	stopped bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, analyzer *analyze.Analyzer, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		analyzer: analyzer,
		stats:    NewAnalysisStats(time.Hour),
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.analyzer, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. It is safe to call more than
// once.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		job.AddError("pipeline stopped")
		job.SetStatus(StatusFailed, "stopped")
		return ErrStopped
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// JobCount returns the number of jobs still held in memory.
func (o *Orchestrator) JobCount() int {
	return o.jobs.Len()
}

// Stats returns the analysis latency tracker.
func (o *Orchestrator) Stats() *AnalysisStats {
	return o.stats
}

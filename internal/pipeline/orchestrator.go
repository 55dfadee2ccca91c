package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bookvox/bookvox/internal/config"
	"github.com/bookvox/bookvox/internal/downstream"
	"github.com/bookvox/bookvox/internal/segment"
	"github.com/bookvox/bookvox/internal/sentence"
	"github.com/bookvox/bookvox/internal/store"
)

// Orchestrator owns the job queue, the worker pool, and the in-memory job
// registry. Submit enqueues a book; workers drain the queue until Stop.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	stats  *Stats
	log    *slog.Logger

	workerCount int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewOrchestrator(cfg config.Config, st *store.Store, oracle sentence.Segmenter, notifier downstream.Notifier, log *slog.Logger) *Orchestrator {
	segCfg := segment.DefaultConfig()
	segCfg.MaxSentenceLen = cfg.MaxSentenceLen
	segCfg.MinMergeLen = cfg.MinMergeLen
	segCfg.MaxMergeLen = cfg.MaxMergeLen
	segCfg.MaxWordsPerSub = cfg.MaxWordsPerSub
	segCfg.MinSplitWords = cfg.MinSplitWords
	segCfg.MinParagraphsPerSub = cfg.MinParagraphsPerSub

	stats := NewStats(time.Hour)

	return &Orchestrator{
		jobs:        NewJobStore(cfg.JobTTL),
		queue:       make(chan *Job, cfg.MaxQueueSize),
		worker:      NewWorker(st, oracle, notifier, stats, log, segCfg, cfg.PDFFallbackPdftotext),
		stats:       stats,
		log:         log,
		workerCount: cfg.WorkerCount,
	}
}

// Start launches the worker pool and the job-store janitor.
func (o *Orchestrator) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	for i := 0; i < o.workerCount; i++ {
		o.wg.Add(1)
		go o.runWorker(ctx, i)
	}

	o.wg.Add(1)
	go o.runJanitor(ctx)

	o.log.Info("orchestrator started", "workers", o.workerCount, "queue_capacity", cap(o.queue))
}

// Stop signals workers to finish and waits for them.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
	o.log.Info("orchestrator stopped")
}

func (o *Orchestrator) runWorker(ctx context.Context, id int) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-o.queue:
			o.log.Debug("worker picked up job", "worker", id, "job_id", job.ID)
			o.worker.Process(ctx, job)
		}
	}
}

func (o *Orchestrator) runJanitor(ctx context.Context) {
	defer o.wg.Done()
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.jobs.Cleanup()
		}
	}
}

// Submit registers a job and enqueues it. Returns an error when the queue
// is full so callers can surface backpressure.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.AddError("queue full")
		job.SetStatus(StatusFailed, "queued")
		return fmt.Errorf("job queue is full (capacity %d)", cap(o.queue))
	}
}

// GetJob returns the job with the given ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth reports the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the rolling segmentation latency aggregate.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

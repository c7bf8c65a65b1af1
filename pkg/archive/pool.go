// Package archive provides an asynchronous worker pool that persists
// completed turns to a storage.Driver and publishes them on an event stream.
//
// The pool keeps the agent loop free of storage and broker latency.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/eventstream"
	"github.com/Gorgooo61/AI-character/pkg/logger"
	"github.com/Gorgooo61/AI-character/pkg/storage"
)

var (
	defaultNumWorkers   uint = 2
	defaultJobQueueSize uint = 64
	defaultJobTimeout        = 30 * time.Second
)

// Job is a unit of work for the worker pool to execute against.
type Job struct {
	TurnID      string
	UserText    string
	Assistant   string
	Emotion     string
	Autonomous  bool
	StartedAt   time.Time
	CompletedAt time.Time
}

func (j Job) turn() storage.Turn {
	return storage.Turn{
		ID:            j.TurnID,
		UserText:      j.UserText,
		AssistantText: j.Assistant,
		Emotion:       j.Emotion,
		Autonomous:    j.Autonomous,
		StartedAt:     j.StartedAt,
		CompletedAt:   j.CompletedAt,
	}
}

// Config is the configuration options for the worker pool.
type Config struct {
	// Driver is the storage backend for archived turns.
	Driver storage.Driver

	// Publisher is the optional event stream for completed turns.
	Publisher eventstream.Publisher

	// Source is stamped on every published event.
	Source eventstream.EventSource

	// NumWorkers is the number of background workers in the pool.
	NumWorkers uint

	// QueueSize is the capacity of the buffered job channel (defaults to 64).
	QueueSize uint

	// JobTimeout bounds persisting and publishing one job.
	JobTimeout time.Duration

	Logger *slog.Logger
}

// Pool processes archive jobs asynchronously via a worker pool.
type Pool struct {
	config    *Config
	queue     chan Job
	wg        sync.WaitGroup
	logger    *slog.Logger
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewPool creates a new Pool and starts its worker goroutines.
func NewPool(c *Config) (*Pool, error) {
	if c.Driver == nil {
		return nil, fmt.Errorf("archive storage driver is required")
	}

	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}

	if c.QueueSize == 0 {
		c.QueueSize = defaultJobQueueSize
	}

	if c.JobTimeout <= 0 {
		c.JobTimeout = defaultJobTimeout
	}

	if c.NumWorkers > uint(math.MaxInt) {
		return nil, fmt.Errorf("NumWorkers %d exceeds max int", c.NumWorkers)
	}

	wp := &Pool{
		config: c,
		queue:  make(chan Job, c.QueueSize),
		logger: logger.OrNop(c.Logger),
	}

	wp.wg.Add(int(c.NumWorkers))
	for i := range c.NumWorkers {
		go wp.worker(i)
	}

	return wp, nil
}

// Enqueue submits a job for processing by the worker pool.
// Returns true if enqueued, false if the queue is full or the pool is
// closed, resulting in the job being dropped.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.logger.Error("job not queued, pool closed", "turn_id", job.TurnID)
		return false
	}

	select {
	case p.queue <- job:
		p.logger.Debug("job queued", "turn_id", job.TurnID)
		return true
	default:
		p.logger.Error("job not queued, queue full, job dropped", "turn_id", job.TurnID)
		return false
	}
}

// Close signals workers to stop and waits for in-flight jobs to drain.
// It is safe to call more than once.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.queue)
		p.mu.Unlock()
		p.wg.Wait()
	})
	return nil
}

// worker is the inner worker thread that continuously pulls jobs off the jobs queue
func (p *Pool) worker(id uint) {
	defer p.wg.Done()
	p.logger.Debug("archive worker started", "worker_id", id)

	for job := range p.queue {
		p.processJob(job)
	}

	p.logger.Debug("archive worker stopped", "worker_id", id)
}

// processJob stores the turn and, when it was newly inserted, publishes it.
func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.JobTimeout)
	defer cancel()

	turn := job.turn()
	isNew, err := p.config.Driver.Put(ctx, &turn)
	if err != nil {
		p.logger.Error("archiving turn failed", "turn_id", job.TurnID, "error", err)
		return
	}

	p.logger.Debug("turn archived",
		"turn_id", job.TurnID,
		"is_new", isNew,
		"autonomous", job.Autonomous,
	)

	if !isNew || p.config.Publisher == nil {
		return
	}

	event := eventstream.NewTurnCompletedEvent(turn, p.config.Source, time.Now().UTC())
	if err := p.config.Publisher.PublishTurn(ctx, event); err != nil {
		p.logger.Warn("publishing turn event failed",
			"turn_id", job.TurnID,
			"event_id", event.EventID,
			"error", err,
		)
	}
}

package summary

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/summario-team/summario-api/pkg/jobcontext"
)

// Generator is the slice of Service the dispatcher drives
type Generator interface {
	Generate(ctx context.Context, meetingID uuid.UUID) error
}

// Dispatcher decouples webhook acknowledgment from summary generation:
// finished meetings are queued here and a small worker pool runs the
// generation jobs. Enqueue never blocks; a full queue drops the job,
// which is recoverable by an explicit re-trigger.
type Dispatcher struct {
	generator Generator
	queue     chan uuid.UUID
	stop      chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	running   bool
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher with the given queue capacity
func NewDispatcher(generator Generator, queueSize int, logger *zap.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher{
		generator: generator,
		queue:     make(chan uuid.UUID, queueSize),
		logger:    logger,
	}
}

// Start launches the worker pool
func (d *Dispatcher) Start(workerCount int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}
	if workerCount <= 0 {
		workerCount = 2
	}

	d.stop = make(chan struct{})
	d.running = true

	for i := 1; i <= workerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("summary dispatcher started", zap.Int("workers", workerCount))
}

// Stop signals the workers and waits for in-flight jobs to finish
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stop)
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("summary dispatcher stopped")
}

// Enqueue hands a meeting to the pool. Returns false when the queue is
// full; the caller decides whether that is fatal.
func (d *Dispatcher) Enqueue(meetingID uuid.UUID) bool {
	select {
	case d.queue <- meetingID:
		return true
	default:
		d.logger.Warn("summary queue full",
			zap.String("meeting_id", meetingID.String()))
		return false
	}
}

func (d *Dispatcher) worker(workerID int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.stop:
			return
		case meetingID := <-d.queue:
			d.run(workerID, meetingID)
		}
	}
}

func (d *Dispatcher) run(workerID int, meetingID uuid.UUID) {
	ctx, cancel := jobcontext.JobBegin(context.Background(), meetingID, "summary_generation", workerID)
	defer cancel()

	if err := d.generator.Generate(ctx, meetingID); err != nil {
		// Generate already recorded the failure on the meeting row
		d.logger.Error("summary generation failed",
			zap.Int("worker_id", workerID),
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err))
		return
	}
	d.logger.Info("summary generation finished",
		zap.Int("worker_id", workerID),
		zap.String("meeting_id", meetingID.String()))
}

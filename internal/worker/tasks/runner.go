package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

// dequeuer is the queue side the runner consumes from.
type dequeuer interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*Task, error)
}

// Runner executes processing jobs from the task queue. The processing step
// is a placeholder: it waits a fixed duration and records completion without
// writing back to the order store.
type Runner struct {
	queue        dequeuer
	concurrency  int
	processDelay time.Duration
	pollTimeout  time.Duration
	stopCh       chan struct{}
	wg           sync.WaitGroup
}

// NewRunner creates a task runner over the given queue.
func NewRunner(queue dequeuer) *Runner {
	concurrency := viper.GetInt("worker.task.concurrency")
	if concurrency == 0 {
		concurrency = 2
	}

	processSeconds := viper.GetInt("worker.task.process_seconds")
	if processSeconds == 0 {
		processSeconds = 2
	}

	return &Runner{
		queue:        queue,
		concurrency:  concurrency,
		processDelay: time.Duration(processSeconds) * time.Second,
		pollTimeout:  time.Second,
		stopCh:       make(chan struct{}),
	}
}

// Start launches the job runners and blocks until the context is canceled
// or Stop is called.
func (r *Runner) Start(ctx context.Context) {
	slog.Info("Task runner started",
		"concurrency", r.concurrency,
		"process_delay", r.processDelay,
	)

	for i := 0; i < r.concurrency; i++ {
		r.wg.Add(1)
		go r.runWorker(ctx)
	}

	r.wg.Wait()
	slog.Info("Task runner stopped")
}

// Stop stops the runner.
func (r *Runner) Stop() {
	close(r.stopCh)
}

func (r *Runner) runWorker(ctx context.Context) {
	defer r.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			return
		default:
		}

		task, err := r.queue.Dequeue(ctx, r.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Failed to dequeue task", "error", err)
			time.Sleep(r.pollTimeout)

			continue
		}
		if task == nil {
			continue
		}

		r.process(ctx, task)
	}
}

func (r *Runner) process(ctx context.Context, task *Task) {
	_, span := otel.Tracer("worker").Start(ctx, "Runner.process")
	defer span.End()

	time.Sleep(r.processDelay)

	slog.Info("Order processed", "order_id", task.OrderID)
}

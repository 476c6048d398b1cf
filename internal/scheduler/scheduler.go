// Package scheduler runs the background lifecycle ticks. Each task gets its
// own goroutine and its own ticker; task errors are logged and the ticker
// keeps going.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a named periodic job.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// TickerFactory builds the tick source for a task. Production uses
// NewTicker; tests substitute a channel they control.
type TickerFactory func(interval time.Duration) (ticks <-chan time.Time, stop func())

// NewTicker is the production TickerFactory backed by time.Ticker.
func NewTicker(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// Scheduler owns a set of periodic tasks.
type Scheduler struct {
	tasks     []Task
	newTicker TickerFactory
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New builds a scheduler over the given tasks. A nil tickerFactory means
// real time.
func New(tasks []Task, tickerFactory TickerFactory, logger *slog.Logger) *Scheduler {
	if tickerFactory == nil {
		tickerFactory = NewTicker
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		tasks:     tasks,
		newTicker: tickerFactory,
		logger:    logger,
	}
}

// Start launches one goroutine per task. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.run(ctx, task)
	}
}

// Stop cancels all tasks and waits for their goroutines to drain.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, task Task) {
	defer s.wg.Done()

	ticks, stop := s.newTicker(task.Interval)
	defer stop()

	s.logger.Info("scheduler task started",
		"task", task.Name,
		"interval", task.Interval.String(),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler task stopped", "task", task.Name)
			return
		case <-ticks:
			if err := task.Run(ctx); err != nil {
				s.logger.ErrorContext(ctx, "scheduler task failed",
					"task", task.Name,
					"error", err,
				)
			}
		}
	}
}

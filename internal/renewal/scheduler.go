package renewal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mjcarver/gymledger/internal/model"
)

// MemberLister is the slice of the member store the scheduler needs.
type MemberLister interface {
	List() ([]model.Member, error)
}

// Scheduler periodically runs the renewal check over all members. The dedup
// log makes ticks idempotent, so the interval only bounds reminder latency.
type Scheduler struct {
	mu         sync.RWMutex
	members    MemberLister
	dispatcher *Dispatcher
	windows    Windows
	interval   time.Duration
	logger     *slog.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewScheduler(members MemberLister, dispatcher *Dispatcher, windows Windows, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		members:    members,
		dispatcher: dispatcher,
		windows:    windows,
		interval:   time.Hour,
		logger:     logger,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	result, err := s.Run(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("renewal check", "error", err)
		return
	}
	if result.Sent > 0 {
		s.logger.Info("renewal check", "sent", result.Sent, "skipped", result.Skipped, "failed", result.Failed)
	}
}

// Run executes a single renewal pass. Also invoked directly by the admin
// trigger endpoint.
func (s *Scheduler) Run(ctx context.Context, now time.Time) (Result, error) {
	members, err := s.members.List()
	if err != nil {
		return Result{}, err
	}
	reminders := Evaluate(now, members, s.windows)
	return s.dispatcher.Dispatch(ctx, reminders)
}

// Windows returns the configured reminder windows.
func (s *Scheduler) Windows() Windows {
	return s.windows
}

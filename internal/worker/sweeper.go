package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/sabbaghsami/gramps/common/logger"
	"github.com/sabbaghsami/gramps/internal/service"
)

type SweeperConfig struct {
	Interval time.Duration
}

// Sweeper periodically removes expired messages. Reads never return expired
// messages; the sweep only bounds storage growth.
type Sweeper struct {
	expiry service.ExpiryService
	locker Locker
	cfg    SweeperConfig
	after  func()

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// NewSweeper creates a Sweeper. A nil locker means this is the only sweeper.
// after, if set, runs after each cycle (e.g. storage garbage collection).
func NewSweeper(expiry service.ExpiryService, locker Locker, cfg SweeperConfig, after func()) *Sweeper {
	if locker == nil {
		locker = noopLocker{}
	}
	return &Sweeper{
		expiry:    expiry,
		locker:    locker,
		cfg:       cfg,
		after:     after,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run sweeps once immediately, then on every tick. Blocks until Stop() is
// called or ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "gramps.worker.sweeper",
	})

	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "sweeper started", "interval", s.cfg.Interval)

	s.SweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "sweeper stopping")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// Stop signals the sweeper to stop and waits for the current cycle.
func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

// SweepOnce runs one cycle if this replica wins the lock and reports the
// number of messages removed.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	sc := logger.StartSpan(ctx, "sweeper.sweep")
	defer sc.End()
	ctx = sc.Context()

	unlock, ok, err := s.locker.TryLock(ctx)
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "sweep lock error", "error", err)
		return 0
	}
	if !ok {
		slog.DebugContext(ctx, "sweep skipped, another worker holds the lock")
		return 0
	}
	defer func() {
		if err := unlock(ctx); err != nil {
			slog.WarnContext(ctx, "failed to release sweep lock", "error", err)
		}
	}()

	removed, err := s.expiry.Sweep(ctx)
	if err != nil {
		sc.RecordError(err)
		slog.ErrorContext(ctx, "sweep cycle error", "error", err, "removed", removed)
	}

	if s.after != nil {
		s.after()
	}
	return removed
}

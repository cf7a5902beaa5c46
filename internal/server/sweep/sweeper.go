// Package sweep implements the periodic purge of expired notes. The flow is
// deliberately two-phase: query the expired batch, then delete by id list.
// Deletes stay short and bounded, and backoff sits with this caller instead
// of inside the data-access layer.
package sweep

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/onorbumbum/noteshare.space/internal/logging"
	"github.com/onorbumbum/noteshare.space/internal/server/models"
)

// NoteStore is the slice of the service layer the sweeper depends on.
type NoteStore interface {
	GetExpiredNotes(ctx context.Context) ([]*models.Note, error)
	DeleteNotes(ctx context.Context, ids []string) (int64, error)
}

type Sweeper struct {
	notes    NoteStore
	logger   logging.Logger
	interval time.Duration

	// base delay for the delete retry backoff, overridable in tests
	backoffBase time.Duration
}

func New(notes NoteStore, logger logging.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		notes:       notes,
		logger:      logger,
		interval:    interval,
		backoffBase: 500 * time.Millisecond,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
// An interval of 0 or less disables the sweeper entirely.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info(ctx, "sweeper disabled")
		return
	}

	s.logger.Info(ctx, "sweeper starting", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "sweeper shutting down")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep removes one batch of expired notes. Errors are logged and abandoned
// until the next tick; a sweep must never take the server down.
func (s *Sweeper) sweep(ctx context.Context) {
	start := time.Now()

	expired, err := s.notes.GetExpiredNotes(ctx)
	if err != nil {
		s.logger.Error(ctx, "expiry query failed", "err", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	ids := make([]string, 0, len(expired))
	for _, n := range expired {
		ids = append(ids, n.ID)
	}

	// Deleting an already-deleted id is a no-op, so retrying the whole id
	// list after a transient failure is safe.
	var deleted int64
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(s.backoffBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		n, err := s.notes.DeleteNotes(ctx, ids)
		deleted += n
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "expired note deletion failed", "deleted", deleted, "err", err)
		return
	}

	s.logger.Info(ctx, "sweep complete",
		"deleted", deleted, "duration_ms", time.Since(start).Milliseconds())
}

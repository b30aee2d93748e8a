package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultExpiryInterval is how often due attempts are swept.
const DefaultExpiryInterval = 10 * time.Second

// AttemptExpirer submits running attempts whose deadline has passed.
type AttemptExpirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

// ExpiryWorker auto-submits attempts that ran out of time while no client
// was connected.
type ExpiryWorker struct {
	expirer  AttemptExpirer
	interval time.Duration
	log      zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(expirer AttemptExpirer, interval time.Duration, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		expirer:  expirer,
		interval: interval,
		log:      log.With().Str("component", "expiry_worker").Logger(),
	}
}

// Start sweeps once per interval until ctx is cancelled. Call in a goroutine.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Expiry worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) sweep(ctx context.Context) {
	n, err := w.expirer.ExpireDue(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Expiry sweep failed")
		}
		return
	}
	if n > 0 {
		w.log.Info().Int("expired", n).Msg("Auto-submitted due attempts")
	}
}

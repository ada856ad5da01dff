package booking

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/bookwell/bookwell-api/internal/pkg/wallclock"
)

// Completer moves confirmed bookings whose last date has passed to
// completed. Completion is time-based and external to request handling,
// so it runs as a scheduled job.
type Completer struct {
	service *Service
}

// NewCompleter creates a completer over the ledger.
func NewCompleter(service *Service) *Completer {
	return &Completer{service: service}
}

// Run performs one completion sweep.
func (c *Completer) Run(ctx context.Context) error {
	return c.sweep(ctx, wallclock.Today())
}

func (c *Completer) sweep(ctx context.Context, today wallclock.Date) error {
	ended, err := c.service.store.ListConfirmedEndedBefore(ctx, today)
	if err != nil {
		return wrapStorageErr(err)
	}
	if len(ended) == 0 {
		return nil
	}

	log.Info().Int("count", len(ended)).Msg("Completing finished bookings")

	for i := range ended {
		if _, err := c.service.Transition(ctx, system, ended[i].ID, StatusCompleted, ""); err != nil {
			// A concurrent cancel can invalidate the move; skip and let
			// the next sweep pick up whatever remains confirmed.
			log.Warn().
				Err(err).
				Str("booking_id", ended[i].ID.String()).
				Msg("Failed to complete booking")
		}
	}
	return nil
}

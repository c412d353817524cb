// Package scheduler drives the rolling wipe of non-permanent approved ads.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/digkill/adboard/internal/metrics"
	"github.com/digkill/adboard/internal/models"
)

// AdPurger deletes every approved ad, reporting how many went.
type AdPurger interface {
	DeleteApproved(ctx context.Context) (int64, error)
}

// PermanentLister reads the reset-exempt set.
type PermanentLister interface {
	List(ctx context.Context) ([]models.PermanentAd, error)
}

// Announcer pushes the post-reset board and the new deadline to all viewers.
type Announcer interface {
	AnnounceReset(ads []models.Ad, next time.Time)
}

// Reset owns the nextReset deadline. The deadline lives only in memory and is
// recomputed from the wall clock at every firing, so a restart simply starts
// a fresh cycle.
type Reset struct {
	ads      AdPurger
	perms    PermanentLister
	announce Announcer
	log      *slog.Logger
	interval time.Duration
	every    time.Duration

	mu   sync.Mutex
	next time.Time
}

func NewReset(ads AdPurger, perms PermanentLister, announce Announcer, log *slog.Logger, interval time.Duration) *Reset {
	return &Reset{
		ads:      ads,
		perms:    perms,
		announce: announce,
		log:      log,
		interval: interval,
		every:    time.Minute,
		next:     time.Now().Add(interval),
	}
}

// NextReset returns the current deadline.
func (r *Reset) NextReset() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

// Run fires once at start to establish the baseline board, then checks the
// deadline once a minute until the context is canceled. Firing past the
// deadline is idempotent in effect: re-deleting an empty approved set is a
// no-op and the announcement is simply repeated.
func (r *Reset) Run(ctx context.Context) {
	r.fire(ctx)

	ticker := time.NewTicker(r.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if time.Now().Before(r.NextReset()) {
				continue
			}
			r.fire(ctx)
		}
	}
}

func (r *Reset) fire(ctx context.Context) {
	purged, err := r.ads.DeleteApproved(ctx)
	if err != nil {
		// Keep the loop alive; the next tick retries.
		r.log.Error("reset: purge approved ads", "err", err)
		return
	}

	perms, err := r.perms.List(ctx)
	if err != nil {
		r.log.Error("reset: list permanent ads", "err", err)
		return
	}
	ads := make([]models.Ad, 0, len(perms))
	for _, p := range perms {
		ads = append(ads, p.AsAd())
	}

	next := time.Now().Add(r.interval)
	r.mu.Lock()
	r.next = next
	r.mu.Unlock()

	metrics.BoardResets.Inc()
	r.log.Info("board reset", "purged", purged, "permanent", len(ads), "next", next)
	r.announce.AnnounceReset(ads, next)
}

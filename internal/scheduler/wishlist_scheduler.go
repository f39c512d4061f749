package scheduler

import (
	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/robfig/cron/v3"
)

// WishlistPruner is the slice of the wishlist service the job needs.
type WishlistPruner interface {
	PruneOrphaned() (int64, error)
}

// WishlistScheduler periodically removes wishlist rows whose product has
// been soft-deleted.
type WishlistScheduler struct {
	cron   *cron.Cron
	spec   string
	pruner WishlistPruner
}

func NewWishlistScheduler(pruner WishlistPruner, spec string) *WishlistScheduler {
	return &WishlistScheduler{
		cron:   cron.New(),
		spec:   spec,
		pruner: pruner,
	}
}

// Start registers the prune job and starts the cron loop.
func (s *WishlistScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce()
	}); err != nil {
		logger.Error("Failed to add cron job for wishlist pruning", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Wishlist scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce prunes immediately and returns how many rows went away.
func (s *WishlistScheduler) RunOnce() int64 {
	logger.Info("Starting scheduled wishlist prune", nil)

	removed, err := s.pruner.PruneOrphaned()
	if err != nil {
		logger.Error("Failed to prune wishlist from scheduler", err)
		return 0
	}

	logger.Info("Wishlist prune finished", map[string]interface{}{
		"removed": removed,
	})
	return removed
}

// Stop waits for a running job to finish.
func (s *WishlistScheduler) Stop() {
	logger.Info("Stopping wishlist scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Wishlist scheduler stopped", nil)
}

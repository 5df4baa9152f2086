package scheduler

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"chirper/pkg/logging"
)

// PostLister exposes the id listing the resync walks over.
type PostLister interface {
	AllPostIDs(ctx context.Context) ([]bson.ObjectID, error)
}

// Recomputer recalculates and persists a single post's popularity score.
type Recomputer interface {
	Recompute(ctx context.Context, postID bson.ObjectID)
}

// Scheduler handles the periodic full score resync. Interaction handlers keep
// scores fresh on the hot path; the resync repairs posts whose updates were
// lost to transient store errors.
type Scheduler struct {
	logger     logging.Logger
	store      PostLister
	scorer     Recomputer
	interval   time.Duration
	resyncTick *time.Ticker
	stopChan   chan bool
}

// NewScheduler creates a new scheduler instance. An interval of zero or less
// disables the resync.
func NewScheduler(store PostLister, scorer Recomputer, interval time.Duration, logger logging.Logger) *Scheduler {
	return &Scheduler{
		logger:   logger,
		store:    store,
		scorer:   scorer,
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	if s.interval <= 0 {
		s.logger.Info("Score resync scheduler disabled")
		return
	}

	s.logger.WithFields(logging.Fields{
		"interval": s.interval,
	}).Info("Starting score resync scheduler")

	s.resyncTick = time.NewTicker(s.interval)
	go s.runResyncTasks()
}

// Stop stops all scheduled tasks
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping score resync scheduler")

	if s.resyncTick != nil {
		s.resyncTick.Stop()
	}

	close(s.stopChan)
}

func (s *Scheduler) runResyncTasks() {
	for {
		select {
		case <-s.resyncTick.C:
			s.logger.Info("Running scheduled score resync")
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			if err := s.ResyncAll(ctx); err != nil {
				s.logger.WithError(err).Error("Failed to run score resync")
			}
			cancel()
		case <-s.stopChan:
			s.logger.Info("Stopping score resync runner")
			return
		}
	}
}

// ResyncAll recomputes the popularity score of every post. Per-post failures
// are handled inside the recompute; only the id listing can fail here.
func (s *Scheduler) ResyncAll(ctx context.Context) error {
	ids, err := s.store.AllPostIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.scorer.Recompute(ctx, id)
	}

	s.logger.WithFields(logging.Fields{
		"posts": len(ids),
	}).Info("Score resync complete")
	return nil
}

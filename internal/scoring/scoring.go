// Package scoring recomputes the persisted popularity score of a post from
// its current interaction counts. Recomputation is best-effort: it runs
// after an interaction mutation has already succeeded, so read or write
// failures are logged and swallowed, never surfaced to the caller.
package scoring

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"

	"chirper/pkg/logging"
	"chirper/pkg/models"
)

// Interaction weights
const (
	LikeWeight    = 1.0
	RetweetWeight = 2.0
	ReplyWeight   = 1.5
)

// Score computes the popularity score from interaction counts
func Score(counts models.InteractionCounts) float64 {
	return float64(counts.Likes)*LikeWeight +
		float64(counts.Retweets)*RetweetWeight +
		float64(counts.Replies)*ReplyWeight
}

// Store is the data access the calculator needs
type Store interface {
	CountLikes(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)
	CountRetweets(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)
	CountReplies(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)
	UpdatePostScore(ctx context.Context, id bson.ObjectID, score float64) error
}

// Hooks are optional observation points for metrics
type Hooks struct {
	OnRecompute func(status string)
}

// Calculator recomputes and persists post popularity scores
type Calculator struct {
	store  Store
	logger logging.Logger
	hooks  Hooks
}

// NewCalculator creates a score calculator
func NewCalculator(store Store, logger logging.Logger, hooks Hooks) *Calculator {
	return &Calculator{store: store, logger: logger, hooks: hooks}
}

// Recompute reads the post's current like/retweet/reply counts concurrently,
// combines them and overwrites the persisted score. Two concurrent
// recomputations for the same post race; the last write wins, which is
// acceptable for a ranking hint. Failures never propagate to the caller.
func (c *Calculator) Recompute(ctx context.Context, postID bson.ObjectID) {
	counts, err := c.readCounts(ctx, postID)
	if err != nil {
		c.logger.WithError(err).WithField("post_id", postID.Hex()).
			Error("Failed to read interaction counts for score recompute")
		c.observe("read_error")
		return
	}

	score := Score(counts)
	if err := c.store.UpdatePostScore(ctx, postID, score); err != nil {
		c.logger.WithError(err).WithFields(logging.Fields{
			"post_id": postID.Hex(),
			"score":   score,
		}).Error("Failed to persist recomputed score")
		c.observe("write_error")
		return
	}

	c.observe("success")
}

func (c *Calculator) readCounts(ctx context.Context, postID bson.ObjectID) (models.InteractionCounts, error) {
	var counts models.InteractionCounts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.store.CountLikes(gctx, postID, time.Time{})
		counts.Likes = n
		return err
	})
	g.Go(func() error {
		n, err := c.store.CountRetweets(gctx, postID, time.Time{})
		counts.Retweets = n
		return err
	})
	g.Go(func() error {
		n, err := c.store.CountReplies(gctx, postID, time.Time{})
		counts.Replies = n
		return err
	})

	if err := g.Wait(); err != nil {
		return models.InteractionCounts{}, err
	}
	return counts, nil
}

func (c *Calculator) observe(status string) {
	if c.hooks.OnRecompute != nil {
		c.hooks.OnRecompute(status)
	}
}

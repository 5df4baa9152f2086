package trending

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"

	"chirper/internal/store"
	"chirper/pkg/logging"
	"chirper/pkg/models"
	"chirper/pkg/pagination"
)

// InteractionWeight is the per-interaction contribution to a tag's derived
// score, on top of 1 point per contributing post. Interactions are summed
// unweighted here, unlike the popularity score.
const InteractionWeight = 0.5

// TagStore is the data access the hashtag ranker needs
type TagStore interface {
	PostTagsSince(ctx context.Context, since time.Time) ([]models.PostTags, error)
	CountLikes(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)
	CountRetweets(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)
	CountReplies(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)
}

// HashtagRanker aggregates per-tag post counts and interaction totals into
// a derived trending score. Tags are matched case-sensitively with no
// normalization: #Demo and #demo are distinct trends.
type HashtagRanker struct {
	store  TagStore
	logger logging.Logger
}

// NewHashtagRanker creates a hashtag ranker
func NewHashtagRanker(s TagStore, logger logging.Logger) *HashtagRanker {
	return &HashtagRanker{store: s, logger: logger}
}

type tagAccumulator struct {
	postCount    int
	interactions int64
	lastUsed     time.Time
}

// Rank computes the ranked hashtag page. A nil window means all-time; a
// non-nil window restricts both candidate posts and the interactions
// counted for them to [window.From, window.To]. The three counts for each
// post are fetched concurrently; posts are folded sequentially.
func (r *HashtagRanker) Rank(ctx context.Context, params pagination.Params, window *models.TimeWindow) ([]models.HashtagTrend, pagination.Meta, error) {
	var since time.Time
	if window != nil {
		since = window.From
	}

	candidates, err := r.store.PostTagsSince(ctx, since)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("load candidate posts: %w", err)
	}

	accs := make(map[string]*tagAccumulator)
	var order []string

	for _, post := range candidates {
		if len(post.Hashtags) == 0 {
			continue
		}

		counts, err := r.countInteractions(ctx, post.ID, since)
		if err != nil {
			return nil, pagination.Meta{}, fmt.Errorf("count interactions for post %s: %w", post.ID.Hex(), err)
		}
		total := counts.Sum()

		for _, tag := range lo.Uniq(post.Hashtags) {
			acc, ok := accs[tag]
			if !ok {
				acc = &tagAccumulator{}
				accs[tag] = acc
				order = append(order, tag)
			}
			acc.postCount++
			acc.interactions += total
			if post.CreatedAt.After(acc.lastUsed) {
				acc.lastUsed = post.CreatedAt
			}
		}
	}

	entries := lo.Map(order, func(tag string, _ int) models.HashtagTrend {
		acc := accs[tag]
		entry := models.HashtagTrend{
			Tag:               tag,
			PostCount:         acc.postCount,
			TotalInteractions: acc.interactions,
			Score:             round2(float64(acc.postCount) + float64(acc.interactions)*InteractionWeight),
		}
		if window != nil {
			lastUsed := acc.lastUsed
			entry.LastUsed = &lastUsed
		}
		return entry
	})

	// Descending by score; the today variant breaks ties by most recent
	// contributing post, all-time leaves ties in insertion order.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if window != nil {
			return entries[i].LastUsed.After(*entries[j].LastUsed)
		}
		return false
	})

	meta := params.MetaFor(int64(len(entries)))
	start, end := params.Slice(len(entries))
	return entries[start:end], meta, nil
}

func (r *HashtagRanker) countInteractions(ctx context.Context, postID bson.ObjectID, since time.Time) (models.InteractionCounts, error) {
	var counts models.InteractionCounts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := r.store.CountLikes(gctx, postID, since)
		counts.Likes = n
		return err
	})
	g.Go(func() error {
		n, err := r.store.CountRetweets(gctx, postID, since)
		counts.Retweets = n
		return err
	})
	g.Go(func() error {
		n, err := r.store.CountReplies(gctx, postID, since)
		counts.Replies = n
		return err
	})

	if err := g.Wait(); err != nil {
		return models.InteractionCounts{}, err
	}
	return counts, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var _ TagStore = (store.Store)(nil)

// Package trending produces the ranked post and hashtag listings. Post
// ranking trusts the persisted popularity score entirely; hashtag ranking
// is derived fresh per request from the candidate posts and their
// interaction counts.
package trending

import (
	"context"
	"fmt"

	"chirper/internal/store"
	"chirper/pkg/logging"
	"chirper/pkg/models"
	"chirper/pkg/pagination"
)

// PostStore is the data access the post ranker needs
type PostStore interface {
	CountPosts(ctx context.Context) (int64, error)
	PostsByScore(ctx context.Context, offset, limit int) ([]models.Post, error)
}

// PostRanker returns pages of posts ordered by descending popularity score.
// Scores are never recomputed at read time; if the calculator has fallen
// behind, rankings are stale until the next mutation.
type PostRanker struct {
	store  PostStore
	logger logging.Logger
}

// NewPostRanker creates a post ranker
func NewPostRanker(s PostStore, logger logging.Logger) *PostRanker {
	return &PostRanker{store: s, logger: logger}
}

// Rank returns one page of score-ordered posts plus pagination metadata.
// The total count is a separate read from the page slice, so the two are
// consistent only absent concurrent writes; that staleness is acceptable.
func (r *PostRanker) Rank(ctx context.Context, params pagination.Params) ([]models.Post, pagination.Meta, error) {
	total, err := r.store.CountPosts(ctx)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("count posts: %w", err)
	}

	posts, err := r.store.PostsByScore(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("fetch trending page: %w", err)
	}

	return posts, params.MetaFor(total), nil
}

var _ PostStore = (store.Store)(nil)

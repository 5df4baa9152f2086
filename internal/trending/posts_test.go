package trending

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chirper/internal/store"
	"chirper/pkg/logging"
	"chirper/pkg/models"
	"chirper/pkg/pagination"
)

func seedScoredPosts(t *testing.T, mem *store.Memory, scores []float64) {
	t.Helper()
	ctx := context.Background()
	for i, score := range scores {
		post := &models.Post{AuthorID: "author", Text: "post"}
		require.NoError(t, mem.CreatePost(ctx, post))
		require.NoError(t, mem.UpdatePostScore(ctx, post.ID, score))
		_ = i
	}
}

func TestPostRankerOrdering(t *testing.T) {
	mem := store.NewMemory()
	seedScoredPosts(t, mem, []float64{3, 8, 1, 5.5, 0, 12})

	ranker := NewPostRanker(mem, logging.NewTestLogger())
	posts, meta, err := ranker.Rank(context.Background(), pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(6), meta.Total)
	require.Len(t, posts, 6)
	for i := 1; i < len(posts); i++ {
		assert.GreaterOrEqual(t, posts[i-1].PopularityScore, posts[i].PopularityScore)
	}
	assert.Equal(t, 12.0, posts[0].PopularityScore)
}

func TestPostRankerPagesPartitionTheSet(t *testing.T) {
	mem := store.NewMemory()
	seedScoredPosts(t, mem, []float64{9, 7, 5, 3, 1, 8, 6, 4, 2, 0, 10})

	ranker := NewPostRanker(mem, logging.NewTestLogger())
	seen := map[string]bool{}
	var all []models.Post
	for page := 1; ; page++ {
		posts, meta, err := ranker.Rank(context.Background(), pagination.Params{Page: page, Limit: 4})
		require.NoError(t, err)
		for _, p := range posts {
			assert.False(t, seen[p.ID.Hex()], "post repeated across pages")
			seen[p.ID.Hex()] = true
		}
		all = append(all, posts...)
		if !meta.HasMore {
			break
		}
	}

	assert.Len(t, all, 11)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].PopularityScore, all[i].PopularityScore)
	}
}

func TestPostRankerPageBeyondData(t *testing.T) {
	mem := store.NewMemory()
	seedScoredPosts(t, mem, []float64{1, 2})

	ranker := NewPostRanker(mem, logging.NewTestLogger())
	posts, meta, err := ranker.Rank(context.Background(), pagination.Params{Page: 5, Limit: 10})
	require.NoError(t, err)

	assert.Empty(t, posts)
	assert.False(t, meta.HasMore)
	assert.Equal(t, int64(2), meta.Total)
}

func TestPostRankerEmptyStore(t *testing.T) {
	ranker := NewPostRanker(store.NewMemory(), logging.NewTestLogger())
	posts, meta, err := ranker.Rank(context.Background(), pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, int64(0), meta.Total)
	assert.Equal(t, int64(0), meta.Pages)
	assert.False(t, meta.HasMore)
}

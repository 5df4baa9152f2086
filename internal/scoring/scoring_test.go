package scoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"chirper/internal/store"
	"chirper/pkg/logging"
	"chirper/pkg/models"
)

func TestScoreWeights(t *testing.T) {
	cases := []struct {
		name   string
		counts models.InteractionCounts
		want   float64
	}{
		{"zero", models.InteractionCounts{}, 0},
		{"likes only", models.InteractionCounts{Likes: 5}, 5},
		{"retweets weigh double", models.InteractionCounts{Retweets: 3}, 6},
		{"replies weigh 1.5", models.InteractionCounts{Replies: 2}, 3},
		{"mixed", models.InteractionCounts{Likes: 3, Retweets: 1, Replies: 2}, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.counts))
		})
	}
}

func TestRecomputePersistsScore(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	post := &models.Post{AuthorID: "alice", Text: "hello"}
	require.NoError(t, mem.CreatePost(ctx, post))

	for _, user := range []string{"u1", "u2", "u3"} {
		_, err := mem.ToggleLike(ctx, post.ID, user)
		require.NoError(t, err)
	}
	_, err := mem.ToggleRetweet(ctx, post.ID, "u1")
	require.NoError(t, err)
	for _, user := range []string{"u1", "u2"} {
		require.NoError(t, mem.CreateReply(ctx, &models.Reply{PostID: post.ID, UserID: user, Text: "re"}))
	}

	calc := NewCalculator(mem, logging.NewTestLogger(), Hooks{})
	calc.Recompute(ctx, post.ID)

	got, err := mem.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got.PopularityScore) // 3*1 + 1*2 + 2*1.5
}

func TestRecomputeIdempotent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	post := &models.Post{AuthorID: "alice", Text: "hello"}
	require.NoError(t, mem.CreatePost(ctx, post))
	_, err := mem.ToggleLike(ctx, post.ID, "u1")
	require.NoError(t, err)

	calc := NewCalculator(mem, logging.NewTestLogger(), Hooks{})
	calc.Recompute(ctx, post.ID)
	first, err := mem.GetPost(ctx, post.ID)
	require.NoError(t, err)

	calc.Recompute(ctx, post.ID)
	second, err := mem.GetPost(ctx, post.ID)
	require.NoError(t, err)

	assert.Equal(t, first.PopularityScore, second.PopularityScore)
}

func TestRecomputeSwallowsFailures(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.Fail = errors.New("connection reset")

	var statuses []string
	calc := NewCalculator(mem, logging.NewTestLogger(), Hooks{
		OnRecompute: func(status string) { statuses = append(statuses, status) },
	})

	// must not panic or propagate the error
	calc.Recompute(ctx, bson.NewObjectID())
	assert.Equal(t, []string{"read_error"}, statuses)
}

func TestRecomputeMissingPostIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	var statuses []string
	calc := NewCalculator(mem, logging.NewTestLogger(), Hooks{
		OnRecompute: func(status string) { statuses = append(statuses, status) },
	})

	// a concurrently deleted post updates zero records without erroring
	calc.Recompute(ctx, bson.NewObjectID())
	assert.Equal(t, []string{"success"}, statuses)
}

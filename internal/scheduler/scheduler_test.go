package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"chirper/internal/scoring"
	"chirper/internal/store"
	"chirper/pkg/logging"
	"chirper/pkg/models"
)

func seedPost(t *testing.T, mem *store.Memory, staleScore float64, likes int) bson.ObjectID {
	t.Helper()
	ctx := context.Background()
	post := &models.Post{
		ID:              bson.NewObjectID(),
		AuthorID:        "alice",
		Text:            "hello",
		PopularityScore: staleScore,
		CreatedAt:       time.Now(),
	}
	require.NoError(t, mem.CreatePost(ctx, post))
	for i := 0; i < likes; i++ {
		_, err := mem.ToggleLike(ctx, post.ID, string(rune('a'+i)))
		require.NoError(t, err)
	}
	return post.ID
}

func TestResyncAllRepairsStaleScores(t *testing.T) {
	mem := store.NewMemory()
	logger := logging.NewTestLogger()
	calc := scoring.NewCalculator(mem, logger, scoring.Hooks{})

	stale := seedPost(t, mem, 99, 2)
	fresh := seedPost(t, mem, 0, 0)

	s := NewScheduler(mem, calc, time.Minute, logger)
	require.NoError(t, s.ResyncAll(context.Background()))

	post, err := mem.GetPost(context.Background(), stale)
	require.NoError(t, err)
	assert.Equal(t, 2.0, post.PopularityScore)

	post, err = mem.GetPost(context.Background(), fresh)
	require.NoError(t, err)
	assert.Equal(t, 0.0, post.PopularityScore)
}

func TestResyncAllPropagatesListingError(t *testing.T) {
	mem := store.NewMemory()
	logger := logging.NewTestLogger()
	calc := scoring.NewCalculator(mem, logger, scoring.Hooks{})
	mem.Fail = assert.AnError

	s := NewScheduler(mem, calc, time.Minute, logger)
	assert.Error(t, s.ResyncAll(context.Background()))
}

func TestStartDisabledWithoutInterval(t *testing.T) {
	mem := store.NewMemory()
	logger := logging.NewTestLogger()
	calc := scoring.NewCalculator(mem, logger, scoring.Hooks{})

	s := NewScheduler(mem, calc, 0, logger)
	s.Start()
	assert.Nil(t, s.resyncTick)
	s.Stop()
}

// Package store is the data-access layer over the MongoDB collections
// backing posts and their like/retweet/reply interactions.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"chirper/pkg/models"
)

// ErrNotFound is returned for single-entity lookups that match nothing
var ErrNotFound = errors.New("not found")

// Store is the full data-access surface consumed by handlers, the score
// calculator and the trend rankers. A zero `since` means no time filter.
type Store interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	CountPosts(ctx context.Context) (int64, error)

	// PostsByScore returns a page of posts sorted by popularity_score
	// descending with skip/limit applied store-side.
	PostsByScore(ctx context.Context, offset, limit int) ([]models.Post, error)

	// UpdatePostScore overwrites a post's persisted score. Updating a
	// concurrently deleted post affects zero records and is not an error.
	UpdatePostScore(ctx context.Context, id bson.ObjectID, score float64) error

	// PostTagsSince loads id+hashtags+createdAt projections of candidate
	// posts, in insertion order.
	PostTagsSince(ctx context.Context, since time.Time) ([]models.PostTags, error)

	AllPostIDs(ctx context.Context) ([]bson.ObjectID, error)

	CountLikes(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)
	CountRetweets(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)
	CountReplies(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error)

	// ToggleLike adds or removes the (user, post) like and reports whether
	// the like is active afterwards. Same shape for ToggleRetweet.
	ToggleLike(ctx context.Context, postID bson.ObjectID, userID string) (bool, error)
	ToggleRetweet(ctx context.Context, postID bson.ObjectID, userID string) (bool, error)
	CreateReply(ctx context.Context, reply *models.Reply) error
}

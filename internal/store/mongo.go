package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"chirper/pkg/database"
	"chirper/pkg/models"
)

const (
	postsCollection    = "posts"
	likesCollection    = "likes"
	retweetsCollection = "retweets"
	repliesCollection  = "replies"
)

// Mongo implements Store on top of a MongoDB database
type Mongo struct {
	posts    *mongo.Collection
	likes    *mongo.Collection
	retweets *mongo.Collection
	replies  *mongo.Collection
}

// NewMongo builds the store from an established connection
func NewMongo(conn *database.Conn) *Mongo {
	return &Mongo{
		posts:    conn.Collection(postsCollection),
		likes:    conn.Collection(likesCollection),
		retweets: conn.Collection(retweetsCollection),
		replies:  conn.Collection(repliesCollection),
	}
}

// EnsureIndexes creates the indexes the query paths rely on: the unique
// (post, user) constraints on likes and retweets, the score sort index on
// posts and the per-post time-filtered count indexes on interactions.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	uniquePostUser := mongo.IndexModel{
		Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	postTime := mongo.IndexModel{
		Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "created_at", Value: -1}},
	}

	if _, err := m.likes.Indexes().CreateMany(ctx, []mongo.IndexModel{uniquePostUser, postTime}); err != nil {
		return fmt.Errorf("likes indexes: %w", err)
	}
	if _, err := m.retweets.Indexes().CreateMany(ctx, []mongo.IndexModel{uniquePostUser, postTime}); err != nil {
		return fmt.Errorf("retweets indexes: %w", err)
	}
	if _, err := m.replies.Indexes().CreateMany(ctx, []mongo.IndexModel{postTime}); err != nil {
		return fmt.Errorf("replies indexes: %w", err)
	}
	if _, err := m.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "popularity_score", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("posts indexes: %w", err)
	}
	return nil
}

func (m *Mongo) CreatePost(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	if _, err := m.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (m *Mongo) GetPost(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	var post models.Post
	err := m.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

func (m *Mongo) CountPosts(ctx context.Context) (int64, error) {
	return m.posts.CountDocuments(ctx, bson.M{})
}

func (m *Mongo) PostsByScore(ctx context.Context, offset, limit int) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "popularity_score", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := m.posts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("query posts by score: %w", err)
	}
	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (m *Mongo) UpdatePostScore(ctx context.Context, id bson.ObjectID, score float64) error {
	_, err := m.posts.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"popularity_score": score}})
	if err != nil {
		return fmt.Errorf("update post score: %w", err)
	}
	return nil
}

func (m *Mongo) PostTagsSince(ctx context.Context, since time.Time) ([]models.PostTags, error) {
	filter := bson.M{}
	if !since.IsZero() {
		filter["created_at"] = bson.M{"$gte": since}
	}
	opts := options.Find().SetProjection(bson.M{"hashtags": 1, "created_at": 1})

	cursor, err := m.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query post tags: %w", err)
	}
	var tags []models.PostTags
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("decode post tags: %w", err)
	}
	return tags, nil
}

func (m *Mongo) AllPostIDs(ctx context.Context) ([]bson.ObjectID, error) {
	cursor, err := m.posts.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("query post ids: %w", err)
	}
	var docs []struct {
		ID bson.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode post ids: %w", err)
	}
	ids := make([]bson.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (m *Mongo) CountLikes(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error) {
	return m.countInteractions(ctx, m.likes, postID, since)
}

func (m *Mongo) CountRetweets(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error) {
	return m.countInteractions(ctx, m.retweets, postID, since)
}

func (m *Mongo) CountReplies(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error) {
	return m.countInteractions(ctx, m.replies, postID, since)
}

func (m *Mongo) countInteractions(ctx context.Context, coll *mongo.Collection, postID bson.ObjectID, since time.Time) (int64, error) {
	filter := bson.M{"post_id": postID}
	if !since.IsZero() {
		filter["created_at"] = bson.M{"$gte": since}
	}
	return coll.CountDocuments(ctx, filter)
}

func (m *Mongo) ToggleLike(ctx context.Context, postID bson.ObjectID, userID string) (bool, error) {
	return m.toggle(ctx, m.likes, postID, userID)
}

func (m *Mongo) ToggleRetweet(ctx context.Context, postID bson.ObjectID, userID string) (bool, error) {
	return m.toggle(ctx, m.retweets, postID, userID)
}

func (m *Mongo) toggle(ctx context.Context, coll *mongo.Collection, postID bson.ObjectID, userID string) (bool, error) {
	res, err := coll.DeleteOne(ctx, bson.M{"post_id": postID, "user_id": userID})
	if err != nil {
		return false, fmt.Errorf("toggle delete: %w", err)
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	_, err = coll.InsertOne(ctx, bson.M{
		"_id":        bson.NewObjectID(),
		"post_id":    postID,
		"user_id":    userID,
		"created_at": time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		// Lost a race with a concurrent toggle-on; the record exists.
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("toggle insert: %w", err)
	}
	return true, nil
}

func (m *Mongo) CreateReply(ctx context.Context, reply *models.Reply) error {
	if reply.ID.IsZero() {
		reply.ID = bson.NewObjectID()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	if _, err := m.replies.InsertOne(ctx, reply); err != nil {
		return fmt.Errorf("insert reply: %w", err)
	}
	return nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MediaKind enumerates the supported post media types
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is an optional single media descriptor attached to a post
type Media struct {
	Kind MediaKind `json:"kind" bson:"kind"`
	URL  string    `json:"url" bson:"url"`
}

// Post represents a tweet stored in MongoDB. PopularityScore is recomputed
// by the score calculator after every interaction mutation; it is never
// read-modified by clients.
type Post struct {
	ID              bson.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID        string        `json:"author" bson:"author_id"`
	Text            string        `json:"text" bson:"text"`
	Media           *Media        `json:"media,omitempty" bson:"media,omitempty"`
	Hashtags        []string      `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	IsThread        bool          `json:"isThread" bson:"is_thread"`
	PopularityScore float64       `json:"popularityScore" bson:"popularity_score"`
	CreatedAt       time.Time     `json:"createdAt" bson:"created_at"`
}

// Like links a user to a post. At most one per (user, post) pair.
type Like struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	PostID    bson.ObjectID `json:"postId" bson:"post_id"`
	UserID    string        `json:"userId" bson:"user_id"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
}

// Retweet links a user to a post. At most one per (user, post) pair.
type Retweet struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	PostID    bson.ObjectID `json:"postId" bson:"post_id"`
	UserID    string        `json:"userId" bson:"user_id"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
}

// Reply is a comment on a post. Unlike likes and retweets a user may reply
// any number of times. ParentReplyID forms a two-level hierarchy: replies
// to posts, and replies to replies that still resolve to the root post.
type Reply struct {
	ID            bson.ObjectID  `json:"id" bson:"_id,omitempty"`
	PostID        bson.ObjectID  `json:"postId" bson:"post_id"`
	UserID        string         `json:"userId" bson:"user_id"`
	Text          string         `json:"text" bson:"text"`
	ParentReplyID *bson.ObjectID `json:"parentReplyId,omitempty" bson:"parent_reply_id,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" bson:"created_at"`
}

// PostTags is the projection of a post used by the hashtag trend ranker
type PostTags struct {
	ID        bson.ObjectID `bson:"_id"`
	Hashtags  []string      `bson:"hashtags"`
	CreatedAt time.Time     `bson:"created_at"`
}

// InteractionCounts holds the per-post like/retweet/reply counts
type InteractionCounts struct {
	Likes    int64
	Retweets int64
	Replies  int64
}

// Sum returns the unweighted interaction total
func (c InteractionCounts) Sum() int64 {
	return c.Likes + c.Retweets + c.Replies
}

// HashtagTrend is a derived, never-persisted ranking entry for one tag.
// LastUsed is a pointer so the all-time variant, which has no use for it,
// omits the field entirely instead of emitting a zero timestamp.
type HashtagTrend struct {
	Tag               string     `json:"tag"`
	PostCount         int        `json:"postCount"`
	TotalInteractions int64      `json:"totalInteractions"`
	Score             float64    `json:"score"`
	LastUsed          *time.Time `json:"lastUsed,omitempty"`
}

// TimeWindow is the effective candidate window for the "today" trend variant
type TimeWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Package pulse holds the response payload types of the trending API.
package pulse

import (
	"time"

	"chirper/pkg/models"
	"chirper/pkg/pagination"
)

// PostSummary is the post shape embedded in trending responses
type PostSummary struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	IsThread  bool      `json:"isThread"`
	CreatedAt time.Time `json:"createdAt"`
}

// ScoredPost pairs a post summary with its persisted popularity score
type ScoredPost struct {
	Post            PostSummary `json:"post"`
	PopularityScore float64     `json:"popularityScore"`
}

// TrendingPosts is the data payload of GET /api/trending
type TrendingPosts struct {
	Posts      []ScoredPost    `json:"posts"`
	Pagination pagination.Meta `json:"pagination"`
}

// HashtagTrends is the data payload of GET /api/trending/hashtags.
// TimeRange is set only for the today variant.
type HashtagTrends struct {
	Hashtags   []models.HashtagTrend `json:"hashtags"`
	Pagination pagination.Meta       `json:"pagination"`
	TimeRange  *models.TimeWindow    `json:"timeRange,omitempty"`
}

// ToggleResult is the data payload of the like/retweet toggle endpoints
type ToggleResult struct {
	PostID string `json:"postId"`
	Active bool   `json:"active"`
}

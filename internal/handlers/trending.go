package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chirper/internal/metrics"
	"chirper/pkg/api/common"
	"chirper/pkg/api/pulse"
	"chirper/pkg/cache"
	"chirper/pkg/logging"
	"chirper/pkg/middleware"
	"chirper/pkg/models"
	"chirper/pkg/pagination"
)

// TrendWindow is the rolling candidate window of the "today" hashtag variant
const TrendWindow = 24 * time.Hour

// PostRanker produces score-ordered post pages
type PostRanker interface {
	Rank(ctx context.Context, params pagination.Params) ([]models.Post, pagination.Meta, error)
}

// HashtagRanker produces ranked hashtag pages; a nil window means all-time
type HashtagRanker interface {
	Rank(ctx context.Context, params pagination.Params, window *models.TimeWindow) ([]models.HashtagTrend, pagination.Meta, error)
}

// TrendingHandler serves the /api/trending endpoints
type TrendingHandler struct {
	posts      PostRanker
	hashtags   HashtagRanker
	trendCache *cache.Cache // optional; nil disables caching
	logger     logging.Logger
	metrics    *metrics.Metrics
}

// NewTrendingHandler creates the trending endpoints handler
func NewTrendingHandler(posts PostRanker, hashtags HashtagRanker, trendCache *cache.Cache, logger logging.Logger, m *metrics.Metrics) *TrendingHandler {
	return &TrendingHandler{
		posts:      posts,
		hashtags:   hashtags,
		trendCache: trendCache,
		logger:     logger,
		metrics:    m,
	}
}

// GetTrendingPosts handles GET /api/trending
func (h *TrendingHandler) GetTrendingPosts(c *gin.Context) {
	defer h.observeDuration("posts", time.Now())
	params := pagination.Parse(c.Query("page"), c.Query("limit"))

	posts, meta, err := h.posts.Rank(c.Request.Context(), params)
	if err != nil {
		h.countQuery("posts", "error")
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Failed to fetch trending posts")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: "Failed to fetch trending posts"})
		return
	}

	scored := make([]pulse.ScoredPost, 0, len(posts))
	for _, p := range posts {
		scored = append(scored, pulse.ScoredPost{
			Post: pulse.PostSummary{
				ID:        p.ID.Hex(),
				Author:    p.AuthorID,
				Text:      p.Text,
				IsThread:  p.IsThread,
				CreatedAt: p.CreatedAt,
			},
			PopularityScore: p.PopularityScore,
		})
	}

	h.countQuery("posts", "success")
	c.JSON(http.StatusOK, common.OK(pulse.TrendingPosts{Posts: scored, Pagination: meta}))
}

// GetTrendingHashtags handles GET /api/trending/hashtags (all-time)
func (h *TrendingHandler) GetTrendingHashtags(c *gin.Context) {
	defer h.observeDuration("hashtags", time.Now())
	params := pagination.Parse(c.Query("page"), c.Query("limit"))
	h.serveHashtags(c, "hashtags", params, nil)
}

// GetTrendingHashtagsToday handles GET /api/trending/hashtags/today.
// The window is rolling from the current time, not calendar-aligned, and
// filters both candidate posts and the interactions counted for them.
func (h *TrendingHandler) GetTrendingHashtagsToday(c *gin.Context) {
	defer h.observeDuration("hashtags_today", time.Now())
	params := pagination.Parse(c.Query("page"), c.Query("limit"))

	now := time.Now()
	window := &models.TimeWindow{From: now.Add(-TrendWindow), To: now}
	h.serveHashtags(c, "hashtags_today", params, window)
}

func (h *TrendingHandler) serveHashtags(c *gin.Context, variant string, params pagination.Params, window *models.TimeWindow) {
	load := func(ctx context.Context) (interface{}, error) {
		entries, meta, err := h.hashtags.Rank(ctx, params, window)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []models.HashtagTrend{}
		}
		return pulse.HashtagTrends{Hashtags: entries, Pagination: meta, TimeRange: window}, nil
	}

	var payload interface{}
	var err error
	if h.trendCache != nil {
		key := fmt.Sprintf("%s:p%d:l%d", variant, params.Page, params.Limit)
		payload, err = h.trendCache.Get(c.Request.Context(), key, load)
	} else {
		payload, err = load(c.Request.Context())
	}
	if err != nil {
		h.countQuery(variant, "error")
		middleware.GetContextLogger(c, h.logger).WithError(err).WithField("variant", variant).Error("Failed to rank hashtags")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: "Failed to fetch trending hashtags"})
		return
	}

	h.countQuery(variant, "success")
	c.JSON(http.StatusOK, common.OK(payload))
}

func (h *TrendingHandler) countQuery(variant, status string) {
	if h.metrics != nil && h.metrics.TrendQueries != nil {
		h.metrics.TrendQueries.WithLabelValues(variant, status).Inc()
	}
}

func (h *TrendingHandler) observeDuration(variant string, start time.Time) {
	if h.metrics != nil && h.metrics.QueryDuration != nil {
		h.metrics.QueryDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())
	}
}

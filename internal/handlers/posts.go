package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"chirper/internal/hashtag"
	"chirper/internal/metrics"
	"chirper/internal/store"
	"chirper/pkg/api/common"
	"chirper/pkg/api/pulse"
	"chirper/pkg/logging"
	"chirper/pkg/middleware"
	"chirper/pkg/models"
)

// MaxPostLength is the maximum tweet text length
const MaxPostLength = 280

// MutationStore is the data access the mutation endpoints need
type MutationStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id bson.ObjectID) (*models.Post, error)
	ToggleLike(ctx context.Context, postID bson.ObjectID, userID string) (bool, error)
	ToggleRetweet(ctx context.Context, postID bson.ObjectID, userID string) (bool, error)
	CreateReply(ctx context.Context, reply *models.Reply) error
}

// Recomputer triggers a best-effort score recomputation for a post
type Recomputer interface {
	Recompute(ctx context.Context, postID bson.ObjectID)
}

// CreatePostRequest is the body of POST /api/posts
type CreatePostRequest struct {
	Text  string        `json:"text" binding:"required"`
	Media *models.Media `json:"media,omitempty"`
}

// CreateReplyRequest is the body of POST /api/posts/:id/replies
type CreateReplyRequest struct {
	Text          string `json:"text" binding:"required"`
	ParentReplyID string `json:"parentReplyId,omitempty"`
}

// PostsHandler serves post creation and the interaction mutations that
// feed the score calculator.
type PostsHandler struct {
	store   MutationStore
	scorer  Recomputer
	logger  logging.Logger
	metrics *metrics.Metrics
}

// NewPostsHandler creates the post/interaction endpoints handler
func NewPostsHandler(s MutationStore, scorer Recomputer, logger logging.Logger, m *metrics.Metrics) *PostsHandler {
	return &PostsHandler{store: s, scorer: scorer, logger: logger, metrics: m}
}

// CreatePost handles POST /api/posts. Hashtags are extracted from the text
// in order of appearance, case preserved.
func (h *PostsHandler) CreatePost(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "User context required"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "Invalid request"})
		return
	}
	if len(req.Text) > MaxPostLength {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "Post text exceeds 280 characters"})
		return
	}
	if req.Media != nil && req.Media.Kind != models.MediaImage && req.Media.Kind != models.MediaVideo {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "Media kind must be image or video"})
		return
	}

	post := &models.Post{
		AuthorID: userID,
		Text:     req.Text,
		Media:    req.Media,
		Hashtags: hashtag.Extract(req.Text),
	}
	if err := h.store.CreatePost(c.Request.Context(), post); err != nil {
		middleware.GetContextLogger(c, h.logger).WithError(err).Error("Failed to create post")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, common.OK(post))
}

// ToggleLike handles POST /api/posts/:id/like
func (h *PostsHandler) ToggleLike(c *gin.Context) {
	h.toggle(c, "like", h.store.ToggleLike)
}

// ToggleRetweet handles POST /api/posts/:id/retweet
func (h *PostsHandler) ToggleRetweet(c *gin.Context) {
	h.toggle(c, "retweet", h.store.ToggleRetweet)
}

func (h *PostsHandler) toggle(c *gin.Context, kind string, fn func(context.Context, bson.ObjectID, string) (bool, error)) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "User context required"})
		return
	}

	postID, ok := h.resolvePost(c)
	if !ok {
		return
	}

	active, err := fn(c.Request.Context(), postID, userID)
	if err != nil {
		middleware.GetContextLogger(c, h.logger).WithError(err).WithFields(logging.Fields{
			"post_id": postID.Hex(),
			"kind":    kind,
		}).Error("Failed to toggle interaction")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: "Failed to toggle " + kind})
		return
	}

	h.countInteraction(kind, active)
	// Best-effort: recompute failures are logged inside, never surfaced.
	h.scorer.Recompute(c.Request.Context(), postID)

	c.JSON(http.StatusOK, common.OK(pulse.ToggleResult{PostID: postID.Hex(), Active: active}))
}

// CreateReply handles POST /api/posts/:id/replies. Replies are never
// toggled off, and only reply creation triggers a score recompute.
func (h *PostsHandler) CreateReply(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "User context required"})
		return
	}

	postID, ok := h.resolvePost(c)
	if !ok {
		return
	}

	var req CreateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "Invalid request"})
		return
	}

	reply := &models.Reply{PostID: postID, UserID: userID, Text: req.Text}
	if req.ParentReplyID != "" {
		parentID, err := bson.ObjectIDFromHex(req.ParentReplyID)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "Invalid parent reply id"})
			return
		}
		reply.ParentReplyID = &parentID
	}

	if err := h.store.CreateReply(c.Request.Context(), reply); err != nil {
		middleware.GetContextLogger(c, h.logger).WithError(err).WithField("post_id", postID.Hex()).Error("Failed to create reply")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: "Failed to create reply"})
		return
	}

	h.countInteraction("reply", true)
	h.scorer.Recompute(c.Request.Context(), postID)

	c.JSON(http.StatusCreated, common.OK(reply))
}

// resolvePost parses the :id param and verifies the post exists. Missing
// single-entity lookups are the one place a 404 is correct.
func (h *PostsHandler) resolvePost(c *gin.Context) (bson.ObjectID, bool) {
	postID, err := bson.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{Error: "Invalid post id"})
		return bson.ObjectID{}, false
	}

	if _, err := h.store.GetPost(c.Request.Context(), postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, common.ErrorResponse{Error: "Post not found"})
			return bson.ObjectID{}, false
		}
		middleware.GetContextLogger(c, h.logger).WithError(err).WithField("post_id", postID.Hex()).Error("Failed to load post")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{Error: "Failed to load post"})
		return bson.ObjectID{}, false
	}
	return postID, true
}

func (h *PostsHandler) countInteraction(kind string, active bool) {
	if h.metrics == nil || h.metrics.Interactions == nil {
		return
	}
	action := "added"
	if !active {
		action = "removed"
	}
	h.metrics.Interactions.WithLabelValues(kind, action).Inc()
}

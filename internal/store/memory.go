package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"chirper/pkg/models"
)

// Memory is an in-memory Store used by tests. It mirrors the Mongo
// implementation's semantics: score-descending sort with _id tie-break,
// toggle uniqueness per (post, user) and time-filtered counts.
type Memory struct {
	mu       sync.Mutex
	posts    []*models.Post
	likes    []models.Like
	retweets []models.Retweet
	replies  []models.Reply

	// Fail, when set, is returned by every method to exercise error paths
	Fail error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) CreatePost(ctx context.Context, post *models.Post) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	cp := *post
	m.posts = append(m.posts, &cp)
	return nil
}

func (m *Memory) GetPost(ctx context.Context, id bson.ObjectID) (*models.Post, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CountPosts(ctx context.Context) (int64, error) {
	if m.Fail != nil {
		return 0, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.posts)), nil
}

func (m *Memory) PostsByScore(ctx context.Context, offset, limit int) ([]models.Post, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := make([]*models.Post, len(m.posts))
	copy(sorted, m.posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PopularityScore != sorted[j].PopularityScore {
			return sorted[i].PopularityScore > sorted[j].PopularityScore
		}
		return sorted[i].ID.Hex() > sorted[j].ID.Hex()
	})

	if offset >= len(sorted) {
		return nil, nil
	}
	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}
	out := make([]models.Post, 0, end-offset)
	for _, p := range sorted[offset:end] {
		out = append(out, *p)
	}
	return out, nil
}

func (m *Memory) UpdatePostScore(ctx context.Context, id bson.ObjectID, score float64) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.ID == id {
			p.PopularityScore = score
			return nil
		}
	}
	// missing post: zero records affected, not an error
	return nil
}

func (m *Memory) PostTagsSince(ctx context.Context, since time.Time) ([]models.PostTags, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PostTags
	for _, p := range m.posts {
		if !since.IsZero() && p.CreatedAt.Before(since) {
			continue
		}
		out = append(out, models.PostTags{ID: p.ID, Hashtags: p.Hashtags, CreatedAt: p.CreatedAt})
	}
	return out, nil
}

func (m *Memory) AllPostIDs(ctx context.Context) ([]bson.ObjectID, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]bson.ObjectID, len(m.posts))
	for i, p := range m.posts {
		ids[i] = p.ID
	}
	return ids, nil
}

func (m *Memory) CountLikes(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error) {
	if m.Fail != nil {
		return 0, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, l := range m.likes {
		if l.PostID == postID && inWindow(l.CreatedAt, since) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountRetweets(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error) {
	if m.Fail != nil {
		return 0, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.retweets {
		if r.PostID == postID && inWindow(r.CreatedAt, since) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountReplies(ctx context.Context, postID bson.ObjectID, since time.Time) (int64, error) {
	if m.Fail != nil {
		return 0, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.replies {
		if r.PostID == postID && inWindow(r.CreatedAt, since) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ToggleLike(ctx context.Context, postID bson.ObjectID, userID string) (bool, error) {
	if m.Fail != nil {
		return false, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.likes {
		if l.PostID == postID && l.UserID == userID {
			m.likes = append(m.likes[:i], m.likes[i+1:]...)
			return false, nil
		}
	}
	m.likes = append(m.likes, models.Like{
		ID: bson.NewObjectID(), PostID: postID, UserID: userID, CreatedAt: time.Now(),
	})
	return true, nil
}

func (m *Memory) ToggleRetweet(ctx context.Context, postID bson.ObjectID, userID string) (bool, error) {
	if m.Fail != nil {
		return false, m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.retweets {
		if r.PostID == postID && r.UserID == userID {
			m.retweets = append(m.retweets[:i], m.retweets[i+1:]...)
			return false, nil
		}
	}
	m.retweets = append(m.retweets, models.Retweet{
		ID: bson.NewObjectID(), PostID: postID, UserID: userID, CreatedAt: time.Now(),
	})
	return true, nil
}

func (m *Memory) CreateReply(ctx context.Context, reply *models.Reply) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if reply.ID.IsZero() {
		reply.ID = bson.NewObjectID()
	}
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	m.replies = append(m.replies, *reply)
	return nil
}

// SetInteractionTime backdates the newest interaction matching post+user,
// for window-filter tests.
func (m *Memory) SetInteractionTime(postID bson.ObjectID, userID string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.likes) - 1; i >= 0; i-- {
		if m.likes[i].PostID == postID && m.likes[i].UserID == userID {
			m.likes[i].CreatedAt = at
			return
		}
	}
	for i := len(m.retweets) - 1; i >= 0; i-- {
		if m.retweets[i].PostID == postID && m.retweets[i].UserID == userID {
			m.retweets[i].CreatedAt = at
			return
		}
	}
	for i := len(m.replies) - 1; i >= 0; i-- {
		if m.replies[i].PostID == postID && m.replies[i].UserID == userID {
			m.replies[i].CreatedAt = at
			return
		}
	}
}

func inWindow(at, since time.Time) bool {
	return since.IsZero() || !at.Before(since)
}

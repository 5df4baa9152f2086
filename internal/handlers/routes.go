package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API routes on the router
func RegisterRoutes(router *gin.Engine, trending *TrendingHandler, posts *PostsHandler) {
	api := router.Group("/api")

	api.GET("/trending", trending.GetTrendingPosts)
	api.GET("/trending/hashtags", trending.GetTrendingHashtags)
	api.GET("/trending/hashtags/today", trending.GetTrendingHashtagsToday)

	api.POST("/posts", posts.CreatePost)
	api.POST("/posts/:id/like", posts.ToggleLike)
	api.POST("/posts/:id/retweet", posts.ToggleRetweet)
	api.POST("/posts/:id/replies", posts.CreateReply)
}

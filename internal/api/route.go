package api

import (
	"IQNet/internal/api/middleware"
	"IQNet/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(group.AllowOrigins))
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limit := group.RateLimiter.Handler()

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		apiGroup.GET("/ws", group.WSHandler.Connect)

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/user/:user_id", group.PostHandler.GetPostByUserId)
				authOptGroup.GET("/:post_id", group.PostHandler.GetPost)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/self", group.PostHandler.GetPostSelf)
				authGroup.GET("/feed", group.PostHandler.GetNewsfeed)
				authGroup.GET("/saved", group.PostHandler.GetSavedPosts)
			}

			writeGroup := authGroup.Group("")
			writeGroup.Use(limit)
			{
				writeGroup.POST("", group.PostHandler.CreatePost)
				writeGroup.PUT("/:post_id", group.PostHandler.UpdatePost)
				writeGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				writeGroup.POST("/:post_id/share", group.PostHandler.SharePost)
				writeGroup.POST("/:post_id/save", group.PostHandler.SavePost)
				writeGroup.DELETE("/:post_id/save", group.PostHandler.UnsavePost)
				writeGroup.POST("/:post_id/report", group.PostHandler.ReportPost)
			}
		}

		postActionGroup := apiGroup.Group("/post/action")
		postActionGroup.Use(middleware.AuthMiddleware(), limit)
		{
			postActionGroup.POST("/comment", group.PostActionHandler.AddComment)
			postActionGroup.PUT("/comment", group.PostActionHandler.UpdateComment)
			postActionGroup.DELETE("/comment", group.PostActionHandler.DeleteComment)

			postActionGroup.POST("/reply", group.PostActionHandler.AddReply)
			postActionGroup.PUT("/reply", group.PostActionHandler.UpdateReply)
			postActionGroup.DELETE("/reply", group.PostActionHandler.DeleteReply)

			postActionGroup.POST("/reaction/post", group.PostActionHandler.ReactPost)
			postActionGroup.POST("/reaction/comment", group.PostActionHandler.ReactComment)
			postActionGroup.POST("/reaction/reply", group.PostActionHandler.ReactReply)
		}

		connectionGroup := apiGroup.Group("/connection")
		connectionGroup.Use(middleware.AuthMiddleware())
		{
			connectionGroup.GET("/followers/:user_id", group.ConnectionHandler.GetFollowers)
			connectionGroup.GET("/following/:user_id", group.ConnectionHandler.GetFollowing)
			connectionGroup.GET("/requests", group.ConnectionHandler.GetRequests)

			writeGroup := connectionGroup.Group("")
			writeGroup.Use(limit)
			{
				writeGroup.POST("/request/:followee_id", group.ConnectionHandler.SendRequest)
				writeGroup.POST("/:connection_id/accept", group.ConnectionHandler.Accept)
				writeGroup.POST("/:connection_id/decline", group.ConnectionHandler.Decline)
				writeGroup.DELETE("/:connection_id", group.ConnectionHandler.Cancel)
				writeGroup.DELETE("/following/:followee_id", group.ConnectionHandler.Unfollow)
				writeGroup.DELETE("/follower/:follower_id", group.ConnectionHandler.RemoveFollower)
			}
		}

		notificationGroup := apiGroup.Group("/notification")
		notificationGroup.Use(middleware.AuthMiddleware())
		{
			notificationGroup.GET("", group.NotificationHandler.List)
			notificationGroup.POST("/seen", group.NotificationHandler.MarkAllSeen)
			notificationGroup.POST("/:id/read", group.NotificationHandler.MarkRead)
		}

		pointGroup := apiGroup.Group("/points")
		pointGroup.Use(middleware.AuthMiddleware())
		{
			pointGroup.GET("/self", group.PointHandler.GetScore)
			pointGroup.GET("/self/history", group.PointHandler.GetHistory)
		}
	}

	return r
}

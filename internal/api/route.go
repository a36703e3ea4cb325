package api

import (
	"Folio/internal/api/config"
	"Folio/internal/api/middleware"
	"Folio/internal/pkg/logger"
	"Folio/internal/pkg/metrics"
	"Folio/internal/pkg/policy"
	"Folio/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, cfg config.ServerConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	_ = r.SetTrustedProxies(cfg.TrustedProxies)

	// TraceId & Metrics & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(metrics.Middleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	r.GET("/metrics", metrics.Handler())

	auth := middleware.AuthMiddleware(group.UserService)
	authenticated := middleware.Require(policy.Authenticated)
	admin := middleware.Require(policy.Admin)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			response.Message(c, "pong")
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.UserHandler.Register)
			authGroup.POST("/login", group.UserHandler.Login)

			sessionGroup := authGroup.Group("")
			sessionGroup.Use(auth, authenticated)
			{
				sessionGroup.POST("/logout", group.UserHandler.Logout)
				sessionGroup.GET("/me", group.UserHandler.GetUserInfo)
			}
		}

		postGroup := apiGroup.Group("/posts")
		postGroup.Use(auth, authenticated)
		{
			postGroup.GET("", group.PostHandler.ListPosts)
			postGroup.GET("/search", group.PostHandler.SearchPosts)
			postGroup.GET("/:id", group.PostHandler.GetPost)
			postGroup.PATCH("/:id/view", group.PostActionHandler.ViewPost)
			postGroup.PATCH("/:id/like", group.PostActionHandler.LikePost)
			postGroup.GET("/:id/comments", group.PostActionHandler.GetComments)
			postGroup.POST("/:id/comments", group.PostActionHandler.CreateComment)

			// 需要 admin 角色
			adminGroup := postGroup.Group("")
			adminGroup.Use(admin)
			{
				adminGroup.POST("", group.PostHandler.CreatePost)
				adminGroup.PUT("/:id", group.PostHandler.UpdatePost)
				adminGroup.DELETE("/:id", group.PostHandler.DeletePost)
				adminGroup.PATCH("/:id/status", group.PostHandler.UpdatePostStatus)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		commentGroup.Use(auth, authenticated)
		{
			commentGroup.PUT("/:id", group.PostActionHandler.UpdateComment)
			commentGroup.DELETE("/:id", group.PostActionHandler.DeleteComment)
			commentGroup.PATCH("/:id/like", group.PostActionHandler.LikeComment)
		}

		analyticsGroup := apiGroup.Group("/analytics")
		analyticsGroup.Use(auth, admin)
		{
			analyticsGroup.GET("/stats", group.AnalyticsHandler.Stats)
			analyticsGroup.GET("/categories", group.AnalyticsHandler.Categories)
			analyticsGroup.GET("/monthly", group.AnalyticsHandler.Monthly)
			analyticsGroup.GET("/dashboard", group.AnalyticsHandler.Dashboard)
			analyticsGroup.POST("/reconcile", group.AnalyticsHandler.Reconcile)
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(auth, authenticated)
		{
			notificationGroup.GET("", group.NotificationHandler.GetNotificationList)
			notificationGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notificationGroup.PATCH("/read-all", group.NotificationHandler.MarkAllRead)
			notificationGroup.PATCH("/:id/read", group.NotificationHandler.MarkRead)
		}
	}

	return r
}

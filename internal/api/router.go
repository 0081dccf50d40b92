package api

import (
	"github.com/gin-gonic/gin"

	"github.com/petguard/petguard_go_server/config"
	"github.com/petguard/petguard_go_server/internal/api/handler"
	"github.com/petguard/petguard_go_server/internal/api/middleware"
)

type Router struct {
	authHandler      *handler.AuthHandler
	userHandler      *handler.UserHandler
	postHandler      *handler.PostHandler
	commentHandler   *handler.CommentHandler
	savedPostHandler *handler.SavedPostHandler
	uploadHandler    *handler.UploadHandler
	websocketHandler *handler.WebSocketHandler
	cfg              *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	savedPostHandler *handler.SavedPostHandler,
	uploadHandler *handler.UploadHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:      authHandler,
		userHandler:      userHandler,
		postHandler:      postHandler,
		commentHandler:   commentHandler,
		savedPostHandler: savedPostHandler,
		uploadHandler:    uploadHandler,
		websocketHandler: websocketHandler,
		cfg:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/google/register", r.authHandler.GoogleRegister)
			auth.POST("/google/login", r.authHandler.GoogleLogin)
			auth.GET("/google", r.authHandler.GoogleAuth)
			auth.GET("/google/callback", r.authHandler.GoogleCallback)
			auth.POST("/refresh", r.authHandler.Refresh)
			auth.POST("/logout", r.authHandler.Logout)
		}

		// 公开接口 - 文章
		posts := api.Group("/posts")
		posts.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			posts.GET("", r.postHandler.List)
			posts.GET("/trending", r.postHandler.Trending)
			posts.GET("/tags", r.postHandler.Tags)
			posts.GET("/search", r.postHandler.Search)
			posts.GET("/slug/:slug", r.postHandler.GetBySlug)
			posts.GET("/user/:username", r.postHandler.ListByUsername)
			posts.GET("/tag/:tag", r.postHandler.ListByTag)
			posts.GET("/:id", r.postHandler.Get)
			posts.GET("/:id/comments", r.commentHandler.List)
			posts.POST("/read-count", r.postHandler.ReadCount)
		}

		// 公开接口 - 用户主页
		users := api.Group("/users")
		{
			users.GET("/search", r.userHandler.Search)
			users.GET("/:username", r.userHandler.GetByUsername)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.PUT("/auth/password", r.authHandler.ChangePassword)

			// 当前用户
			user := authenticated.Group("/user")
			{
				user.GET("/profile", r.userHandler.GetProfile)
				user.PUT("/profile", r.userHandler.UpdateProfile)
				user.PUT("/avatar", r.userHandler.UpdateAvatar)
				user.POST("/avatar", r.userHandler.UploadAvatar)
			}
			authenticated.DELETE("/user", r.userHandler.Deactivate)

			// 文章写操作
			authenticated.POST("/posts", r.postHandler.Create)
			authenticated.PUT("/posts/:id", r.postHandler.Update)
			authenticated.DELETE("/posts/:id", r.postHandler.Delete)
			authenticated.POST("/posts/:id/like", r.postHandler.Like)
			authenticated.DELETE("/posts/:id/like", r.postHandler.Unlike)

			// 评论
			authenticated.POST("/comments", r.commentHandler.Create)
			authenticated.DELETE("/comments/:id", r.commentHandler.Delete)

			// 收藏
			savePosts := authenticated.Group("/save_posts")
			{
				savePosts.POST("", r.savedPostHandler.Save)
				savePosts.GET("", r.savedPostHandler.List)
				savePosts.GET("/:id", r.savedPostHandler.Get)
				savePosts.DELETE("/:id", r.savedPostHandler.Unsave)
			}

			// 上传
			authenticated.GET("/upload/sign", r.uploadHandler.SignImageUpload)
		}
	}

	return engine
}

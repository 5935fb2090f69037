package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"humansonly/internal/handler"
	"humansonly/internal/middleware"
	"humansonly/internal/pkg"
	"humansonly/internal/service"
)

func InitRouter(db *gorm.DB, smtpCfg pkg.SMTPConfig) *gin.Engine {
	r := gin.Default()

	emailSvc := service.NewEmailService(smtpCfg)

	user := handler.NewUserHandler(db, emailSvc)
	email := handler.NewEmailHandler(emailSvc)
	community := handler.NewCommunityHandler(db)
	moderation := handler.NewModerationHandler(db)
	post := handler.NewPostHandler(db)
	comment := handler.NewCommentHandler(db)
	vote := handler.NewVoteHandler(db)

	// 邮件验证码
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/code", email.SendCode)
	}

	// 注册登录等免登录接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/reset", user.ResetPassword)
		userGroup.GET("/profile/:username", user.Profile)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态账号接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware(db))
	{
		authGroup.POST("/logout", user.Logout)
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.POST("/verify-human", user.VerifyHuman)
		authGroup.GET("/profile", user.MyProfile)
		authGroup.PUT("/profile", user.UpdateProfile)
	}

	// 社区公开读接口，带token则顺带返回自己的成员信息
	communityGroup := r.Group("/api/community")
	communityGroup.Use(middleware.OptionalAuthMiddleware(db))
	{
		communityGroup.GET("/list", community.List)
		communityGroup.GET("/slug/:slug", community.GetBySlug)
		communityGroup.GET("/:id/members", community.ListMembers)
		communityGroup.GET("/:id/posts", post.ListByCommunity)
	}

	// 社区写接口与管理接口
	communityAuth := r.Group("/api/community")
	communityAuth.Use(middleware.AuthMiddleware(db))
	{
		communityAuth.POST("/create", community.Create)
		communityAuth.POST("/:id/join", community.Join)
		communityAuth.POST("/:id/leave", community.Leave)
		communityAuth.PUT("/:id/role", moderation.ChangeRole)
		communityAuth.POST("/:id/kick", moderation.Kick)
		communityAuth.POST("/:id/ban", moderation.Ban)
		communityAuth.POST("/:id/unban", moderation.Unban)
		communityAuth.GET("/:id/bans", moderation.ListBans)
		communityAuth.PUT("/:id/description", moderation.UpdateDescription)
	}

	// 帖子公开读接口
	postGroup := r.Group("/api/post")
	postGroup.Use(middleware.OptionalAuthMiddleware(db))
	{
		postGroup.GET("/feed", post.ListRecent)
		postGroup.GET("/:id", post.GetPost)
		postGroup.GET("/:id/comments", comment.ListByPost)
		postGroup.GET("/:id/score", vote.PostScore)
	}

	// 帖子写接口
	postAuth := r.Group("/api/post")
	postAuth.Use(middleware.AuthMiddleware(db))
	{
		postAuth.POST("/create", post.CreatePost)
		postAuth.DELETE("/:id", post.DeletePost)
		postAuth.POST("/:id/vote", vote.VotePost)
	}

	// 评论接口
	commentAuth := r.Group("/api/comment")
	commentAuth.Use(middleware.AuthMiddleware(db))
	{
		commentAuth.POST("/create", comment.CreateComment)
		commentAuth.DELETE("/:id", comment.DeleteComment)
		commentAuth.POST("/:id/vote", vote.VoteComment)
	}

	return r
}

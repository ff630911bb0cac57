package router

import (
	"tunelink/internal/handlers"
	"tunelink/internal/middleware"
	"tunelink/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, media *services.MediaService) {
	// Handlers
	authHandler := handlers.NewAuthHandler(media)
	profileHandler := handlers.NewProfileHandler()
	postHandler := handlers.NewPostHandler(media)
	likeHandler := handlers.NewLikeHandler()
	commentHandler := handlers.NewCommentHandler()
	pollHandler := handlers.NewPollHandler(media)

	api := r.Group("/api")
	api.Use(middleware.LoadUser())

	// 公共路由 (Public Routes)
	api.POST("/login", authHandler.Login)                      // 登录
	api.POST("/logout", authHandler.Logout)                    // 退出登录
	api.POST("/create-account", authHandler.CreateAccount)     // 注册
	api.POST("/generate-otp", authHandler.GenerateOTP)         // 签发一次性验证码
	api.POST("/reset-password", authHandler.ResetPassword)     // OTP 流程重置密码
	api.GET("/profile/:username", profileHandler.Public)       // 公开资料卡片
	api.GET("/polls", pollHandler.List)                        // 活动投票列表

	// 受保护路由 (Protected Routes)
	authorized := api.Group("")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/profile", profileHandler.Get)             // 我的资料
		authorized.PUT("/profile", profileHandler.Update)          // 更新资料
		authorized.POST("/post", postHandler.Create)               // 发帖
		authorized.GET("/posts", postHandler.List)                 // 动态流
		authorized.PUT("/post/:id", postHandler.Update)            // 编辑帖子（仅作者）
		authorized.DELETE("/post/:id", postHandler.Delete)         // 删除帖子（仅作者）
		authorized.POST("/like", likeHandler.Toggle)               // 点赞/取消点赞
		authorized.POST("/comment", commentHandler.Create)         // 发表评论
		authorized.GET("/comments/:postID", commentHandler.ListByPost) // 帖子评论列表
	}

	// 投票：普通用户专用，管理员不能投
	api.POST("/vote", middleware.UserOnly(), pollHandler.Vote)

	// 活动管理：管理员专用
	admin := api.Group("/polls")
	admin.Use(middleware.AdminRequired())
	{
		admin.POST("", pollHandler.Create)       // 创建活动
		admin.DELETE("/:id", pollHandler.Delete) // 删除活动
	}
}

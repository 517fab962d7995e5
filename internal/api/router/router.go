package router

import (
	"vida-social/internal/api/handler"
	"vida-social/internal/api/middleware"
	"vida-social/internal/config"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
func Setup(
	r *gin.Engine,
	jwtCfg *config.JWTConfig,
	relationHandler *handler.RelationHandler,
	blockHandler *handler.BlockHandler,
	messageHandler *handler.MessageHandler,
	settingsHandler *handler.SettingsHandler,
	adminMiddleware gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", middleware.AuthRequired(jwtCfg))

	// --- 关注关系模块 ---
	relations := v1.Group("/relations")
	{
		relations.POST("/follow/:id", relationHandler.Follow)
		relations.POST("/unfollow/:id", relationHandler.Unfollow)

		relations.GET("/following/:id", relationHandler.GetFollowing)
		relations.GET("/followers/:id", relationHandler.GetFollowers)
		relations.GET("/following/:id/status", relationHandler.GetFollowStatus)
		relations.GET("/mutual/:id/status", relationHandler.GetMutualStatus)
		relations.GET("/counts/:id", relationHandler.GetCounts)

		relations.GET("/following/my/list", relationHandler.GetMyFollowing)
		relations.GET("/followers/my/list", relationHandler.GetMyFollowers)
	}

	// --- 拉黑模块 ---
	blocks := v1.Group("/blocks")
	{
		blocks.POST("/:id", blockHandler.Block)
		blocks.DELETE("/:id", blockHandler.Unblock)
		blocks.GET("/:id/status", blockHandler.GetStatus)
		blocks.GET("/my/list", blockHandler.ListMine)
	}

	// --- 私信模块 ---
	messages := v1.Group("/messages")
	{
		messages.GET("/can/:id", messageHandler.CanMessage)
		messages.POST("/send/:id", messageHandler.Send)
		messages.GET("/inbox", messageHandler.Inbox)
		messages.GET("/unread/count", messageHandler.UnreadCount)

		messages.GET("/conversations/:id", messageHandler.GetConversation)
		messages.GET("/conversations/:id/participant", messageHandler.GetParticipant)
		messages.POST("/conversations/with/:id", messageHandler.OpenConversation)
		messages.DELETE("/conversations/:id", messageHandler.DeleteConversation)

		messages.DELETE("/:id", messageHandler.DeleteMessage)
	}

	// --- 管理员接口 ---
	admin := v1.Group("/admin", adminMiddleware)
	{
		admin.GET("/messaging/settings", settingsHandler.Get)
		admin.PUT("/messaging/settings", settingsHandler.Update)
		admin.DELETE("/messaging/settings", settingsHandler.Reset)
	}
}

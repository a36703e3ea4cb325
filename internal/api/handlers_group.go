package api

import (
	"Folio/internal/api/handler"
	"Folio/internal/service"
)

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	PostHandler         *handler.PostHandler
	PostActionHandler   *handler.PostActionHandler
	AnalyticsHandler    *handler.AnalyticsHandler
	NotificationHandler *handler.NotificationHandler

	// 鉴权中间件依赖
	UserService service.UserService
}

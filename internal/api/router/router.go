package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/avkhn/notify-pipeline/internal/api/handlers/notification"
	"github.com/avkhn/notify-pipeline/internal/middlewares"
)

func New(handler *notification.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api/notifications")
	{
		api.POST("/", handler.Create)
		api.PUT("/status", handler.UpdateStatus)
		api.GET("/:id", handler.Get)
		api.GET("/:id/status", handler.GetStatus)
	}

	return e
}

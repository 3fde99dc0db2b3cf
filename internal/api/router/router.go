package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/aquatrack/reminderd/internal/api/handlers/reminder"
	"github.com/aquatrack/reminderd/internal/api/respond"
	"github.com/aquatrack/reminderd/internal/middlewares"
	"github.com/aquatrack/reminderd/internal/ws"
)

// New wires the HTTP surface: the registry mutation endpoints called by the
// CRUD web layer, and the WebSocket upgrade route browser clients connect
// to for pushed reminders.
func New(reminderHandler *reminder.Handler, wsHandler *ws.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	e.GET("/health", func(c *ginext.Context) {
		respond.OK(c.Writer, "ok")
	})

	e.GET("/ws", wsHandler.Serve)

	api := e.Group("/api/reminders")
	{
		api.POST("/", reminderHandler.Create)
		api.POST("/sync", reminderHandler.Sync)
		api.GET("/", reminderHandler.List)
		api.GET("/:id", reminderHandler.Get)
		api.PUT("/:id", reminderHandler.Update)
		api.DELETE("/:id", reminderHandler.Delete)
	}

	return e
}

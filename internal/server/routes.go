package server

import (
	"github.com/OFFIS-RIT/letternet/internal/server/middleware"
	"github.com/OFFIS-RIT/letternet/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, app *middleware.App) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(app.Metrics.Handler()))

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Record routes
	apiRoutes.GET("/records", routes.GetRecordsHandler)
	apiRoutes.POST("/records/reload", routes.ReloadRecordsHandler, middleware.RequirePermission("records.reload"))
	apiRoutes.GET("/records/:shelfmark", routes.GetRecordHandler)
	apiRoutes.GET("/correspondence", routes.GetCorrespondenceHandler)

	// View routes
	apiRoutes.POST("/views", routes.ComputeViewsHandler)
	apiRoutes.POST("/views/:view", routes.ComputeViewHandler)
	apiRoutes.GET("/timeline", routes.GetTimelineHandler)
}

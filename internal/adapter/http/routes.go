package http

import (
	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health    *Handler
	NCR       *NCRHandler
	Report    *ReportHandler
	Dashboard *DashboardHandler
	Session   *SessionHandler
}

// Register mounts every route. auth guards /api except the session endpoint;
// mw runs on the guarded group after auth.
func Register(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc, mw ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)
	e.POST("/api/session", h.Session.Login)

	api := e.Group("/api", append([]echo.MiddlewareFunc{auth}, mw...)...)

	api.GET("/ncrs", h.NCR.List)
	api.GET("/ncrs/export.xlsx", h.NCR.ExportXLSX)
	api.POST("/ncrs", h.NCR.Create)
	api.GET("/ncrs/:id", h.NCR.Get)
	api.PUT("/ncrs/:id", h.NCR.Update)
	api.DELETE("/ncrs/:id", h.NCR.Delete)
	api.POST("/ncrs/:id/attachments", h.NCR.UploadAttachment)
	api.GET("/ncrs/:id/attachments/:index", h.NCR.DownloadAttachment)
	api.DELETE("/ncrs/:id/attachments/:index", h.NCR.RemoveAttachment)
	api.GET("/ncrs/:id/activities", h.NCR.Activities)

	api.GET("/ncrs/:id/8d", h.Report.Open)
	api.PUT("/ncrs/:id/8d", h.Report.Save)
	api.POST("/ncrs/:id/8d/edits", h.Report.Edit)
	api.POST("/ncrs/:id/8d/draft", h.Report.Draft)
	api.POST("/ncrs/:id/8d/finalize", h.Report.Finalize)
	api.POST("/ncrs/:id/8d/export", h.Report.Export)

	api.GET("/dashboard", h.Dashboard.Get)
	api.GET("/customers", h.NCR.Customers)
}

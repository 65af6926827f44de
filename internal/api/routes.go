package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arcticroofing/arctic-portal/internal/config"
	"github.com/arcticroofing/arctic-portal/internal/core"
	"github.com/arcticroofing/arctic-portal/internal/middleware"
)

// Services bundles what the handlers need.
type Services struct {
	Gate      *core.SessionGate
	Views     core.ViewService
	Messages  core.MessageService
	Documents core.DocumentService
	Admin     core.AdminService
	Roster    *core.DemoRoster
}

// SetupRoutes configures templates and every route. Global middleware
// (logging, recovery, CORS) is expected to be applied by the caller.
func SetupRoutes(router *gin.Engine, appConfig *config.Config, logger *zap.Logger, svc Services) error {
	tmpl, err := parseTemplates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	sessionMW := middleware.NewSessionMiddleware(svc.Gate)
	router.Use(sessionMW.LoadSession())

	portalHandler := NewPortalHandler(svc.Gate, svc.Views, svc.Messages, svc.Documents, appConfig, logger)
	adminHandler := NewAdminHandler(svc.Gate, svc.Admin, svc.Roster, logger)
	jsonHandler := NewJSONHandler(svc.Gate, svc.Views)

	router.GET("/", portalHandler.Landing)
	router.GET("/auth/callback", portalHandler.Callback)

	portal := router.Group(portalPath)
	{
		portal.GET("", portalHandler.Portal)
		portal.POST("/login", portalHandler.Login)
		portal.POST("/logout", portalHandler.Logout)
		portal.GET("/events", portalHandler.Events)

		portal.POST("/messages", requireSession, portalHandler.SendMessage)
		portal.GET("/documents/:documentId/download", requireSession, portalHandler.DownloadDocument)

		admin := portal.Group("/admin")
		{
			admin.GET("", adminHandler.Show)
			admin.POST("/projects", adminHandler.CreateProject)
			admin.POST("/projects/:projectId/members", adminHandler.AddMember)
			admin.POST("/homeowners", adminHandler.AddHomeowner)
			admin.POST("/homeowners/:homeownerId/revoke", adminHandler.RevokeHomeowner)
		}
	}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/session", jsonHandler.GetSession)
		apiV1.GET("/project", sessionMW.RequireSession(), jsonHandler.GetProject)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "UP", Mode: string(svc.Gate.Mode())})
	})

	logger.Info("routes configured", zap.String("mode", string(svc.Gate.Mode())))
	return nil
}

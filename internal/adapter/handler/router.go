package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/summario-team/summario-api/internal/infrastructure/http/middleware"
	"github.com/summario-team/summario-api/pkg/config"
	"github.com/summario-team/summario-api/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	jwtManager     *jwt.Manager
	meetingHandler *Meeting
	webhookHandler *Webhook
	aiHandler      *AI
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, jwtManager *jwt.Manager, meetingHandler *Meeting, webhookHandler *Webhook, aiHandler *AI) *Router {
	return &Router{
		cfg:            cfg,
		jwtManager:     jwtManager,
		meetingHandler: meetingHandler,
		webhookHandler: webhookHandler,
		aiHandler:      aiHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	// The bot platform calls this unauthenticated; correlation runs on
	// the tracking id inside the payload
	v1.POST("/webhooks/bot", rt.webhookHandler.BotStatus)

	auth := middleware.EchoAuth(rt.jwtManager)
	rt.setupMeetingRoutes(v1, auth)
	rt.setupAIRoutes(v1, auth)
}

// setupMeetingRoutes configures meeting lifecycle routes
func (rt *Router) setupMeetingRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	meetings := g.Group("/meetings", auth)

	meetings.POST("", rt.meetingHandler.Create)
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.POST("/:id/stop", rt.meetingHandler.StopBot)
	meetings.POST("/:id/approve", rt.meetingHandler.Approve)
	meetings.PUT("/:id/agenda", rt.meetingHandler.UpdateAgenda)
	meetings.PUT("/:id/access", rt.meetingHandler.UpdateAccess)
}

// setupAIRoutes configures generation and AI configuration routes
func (rt *Router) setupAIRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	ai := g.Group("/ai", auth)

	ai.POST("/generate-summary", rt.aiHandler.GenerateSummary)
	ai.POST("/generate-template", rt.aiHandler.GenerateTemplate)
	ai.POST("/apply-edit", rt.aiHandler.ApplyEdit)
	ai.GET("/config", rt.aiHandler.GetConfig)
	ai.PUT("/config", rt.aiHandler.UpdateConfig)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}

package echo

import (
	"github.com/labstack/echo/v4"

	"github.com/chathub-dev/chathub/domain"
	"github.com/chathub-dev/chathub/internal/auth"
	"github.com/chathub-dev/chathub/internal/auth/policy"
	"github.com/chathub-dev/chathub/internal/auth/session"
)

// API holds the handler dependencies for the ChatHub HTTP surface.
type API struct {
	verifier auth.Verifier
	userRepo domain.UserRepository
	policy   *policy.Validator
	sessions *session.Manager
	chatbots domain.ChatbotRepository
	websites domain.WebsiteRepository
	agents   domain.AgentRepository
}

// NewAPI initializes the ChatHub API.
func NewAPI(
	verifier auth.Verifier,
	userRepo domain.UserRepository,
	policyValidator *policy.Validator,
	sessions *session.Manager,
	chatbots domain.ChatbotRepository,
	websites domain.WebsiteRepository,
	agents domain.AgentRepository,
) *API {
	return &API{
		verifier: verifier,
		userRepo: userRepo,
		policy:   policyValidator,
		sessions: sessions,
		chatbots: chatbots,
		websites: websites,
		agents:   agents,
	}
}

// RegisterRoutes registers all API routes on the echo instance.
func (a *API) RegisterRoutes(e *echo.Echo) {
	// Auth surface. IP validation is the one endpoint usable without a token.
	authGroup := e.Group("/api/auth")
	authGroup.GET("/ip-validation", a.IPValidationHandler)

	authed := e.Group("/api/auth", a.RequireAuth)
	authed.GET("/validate", a.ValidateHandler)
	authed.POST("/session", a.CreateSessionHandler)
	authed.GET("/session", a.GetSessionHandler)
	authed.DELETE("/session", a.DeleteSessionHandler)
	authed.GET("/2fa-status", a.TwoFAStatusHandler)

	// Admin dashboard surface.
	admin := e.Group("/api/admin", a.RequireAuth, a.RequireAdmin)
	admin.GET("/users", a.ListUsersHandler)
	admin.POST("/users/:uid/approval", a.SetApprovalHandler, a.RequireWriter)
	admin.GET("/users/:uid/sessions", a.ListUserSessionsHandler)
	admin.GET("/metrics", a.MetricsSnapshotHandler)

	// Tenant platform surfaces: approved accounts only, writes need a
	// writer (non-read-only) account.
	bots := e.Group("/api/chatbots", a.RequireAuth, a.RequireApproved)
	bots.GET("", a.ListChatbotsHandler)
	bots.POST("", a.CreateChatbotHandler, a.RequireWriter)
	bots.GET("/:id", a.GetChatbotHandler)
	bots.PUT("/:id", a.UpdateChatbotHandler, a.RequireWriter)
	bots.DELETE("/:id", a.DeleteChatbotHandler, a.RequireWriter)

	sites := e.Group("/api/platform/websites", a.RequireAuth, a.RequireApproved)
	sites.GET("", a.ListWebsitesHandler)
	sites.POST("", a.CreateWebsiteHandler, a.RequireWriter)
	sites.GET("/:id", a.GetWebsiteHandler)
	sites.PUT("/:id", a.UpdateWebsiteHandler, a.RequireWriter)
	sites.DELETE("/:id", a.DeleteWebsiteHandler, a.RequireWriter)
	sites.GET("/:id/services", a.ListWebsiteServicesHandler)
	sites.POST("/:id/services", a.AddWebsiteServiceHandler, a.RequireWriter)

	agents := e.Group("/api/platform/agents", a.RequireAuth, a.RequireApproved)
	agents.GET("", a.ListAgentsHandler)
	agents.POST("", a.CreateAgentHandler, a.RequireWriter)
	agents.GET("/:id", a.GetAgentHandler)
	agents.PUT("/:id", a.UpdateAgentHandler, a.RequireWriter)
	agents.DELETE("/:id", a.DeleteAgentHandler, a.RequireWriter)
}

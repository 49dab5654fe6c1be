package router

import (
	"net/http"

	"iyffa/internal/common"
	"iyffa/internal/config"
	"iyffa/internal/domain/article"
	"iyffa/internal/domain/auth"
	"iyffa/internal/domain/billing"
	"iyffa/internal/domain/event"
	"iyffa/internal/domain/mailer"
	"iyffa/internal/domain/member"
	"iyffa/internal/domain/project"
	"iyffa/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the domain handlers the router wires up.
type Handlers struct {
	Auth    *auth.Handler
	Member  *member.Handler
	Article *article.Handler
	Project *project.Handler
	Event   *event.Handler
	Billing *billing.Handler
	Mailer  *mailer.Handler
}

// New creates and configures the Gin router with all middleware and routes.
func New(cfg *config.Config, verifier middleware.TokenVerifier, h Handlers) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()

	// Global middleware stack (order matters)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	rateLimiter := middleware.NewRateLimiter(
		cfg.RateLimit.RequestsPerSecond,
		cfg.RateLimit.Burst,
	)
	r.Use(rateLimiter.Middleware())

	r.Use(gin.Logger())

	r.GET("/health", healthCheck)

	// Public routes: registration, login, payment form, provider webhooks,
	// and the read-only content endpoints.
	public := r.Group("/api")
	{
		h.Member.RegisterPublicRoutes(public)
		h.Auth.RegisterPublicRoutes(public)
		h.Article.RegisterPublicRoutes(public)
		h.Project.RegisterPublicRoutes(public)
		h.Event.RegisterPublicRoutes(public)
		h.Billing.RegisterPublicRoutes(public)
		h.Mailer.RegisterWebhookRoutes(public)
	}

	// Authenticated routes
	protected := r.Group("/api")
	protected.Use(middleware.Auth(verifier))
	{
		h.Auth.RegisterProtectedRoutes(protected)
		h.Article.RegisterProtectedRoutes(protected)
		h.Project.RegisterProtectedRoutes(protected)
		h.Event.RegisterProtectedRoutes(protected)
		h.Billing.RegisterProtectedRoutes(protected)
	}

	// Admin-only routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(verifier), middleware.RequireAdmin())
	{
		h.Member.RegisterAdminRoutes(admin)
		h.Event.RegisterAdminRoutes(admin)
		h.Mailer.RegisterRoutes(admin)
	}

	return r
}

// healthCheck handles GET /health
func healthCheck(c *gin.Context) {
	common.Success(c, http.StatusOK, gin.H{
		"status":  "ok",
		"service": "iyffa",
	})
}

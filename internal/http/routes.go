package http

import (
	"learnquest/internal/config"
	"learnquest/internal/http/handlers"
	"learnquest/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the router needs.
type Deps struct {
	Handler  *handlers.Handler
	Health   *handlers.HealthHandler
	Resolver middleware.UserResolver
	Limiter  *middleware.RateLimiter
	Config   *config.Config
}

// NewRouter builds the gin engine with the global middleware chain.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestContext(), middleware.CORS(), middleware.Metrics(), middleware.AccessLog())
	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health checks and metrics (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(d.Limiter.ByIP("api", d.Config.APIRateLimit, d.Config.APIRateWindow))
	registerAPIRoutes(v1, d)

	// Legacy /api routes kept for older web clients
	api := r.Group("/api")
	api.Use(d.Limiter.ByIP("api", d.Config.APIRateLimit, d.Config.APIRateWindow))
	api.GET("/health", d.Health.Health)
	registerAPIRoutes(api, d)
}

func registerAPIRoutes(api *gin.RouterGroup, d Deps) {
	h := d.Handler
	cfg := d.Config

	auth := middleware.JWT(d.Resolver)
	authRL := d.Limiter.ByIP("auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
	// per-user limit on SP-moving endpoints
	userRL := d.Limiter.ByUser("user", cfg.UserRateLimit, cfg.UserRateWindow)

	// Auth
	a := api.Group("/auth")
	{
		a.POST("/register", authRL, h.Register)
		a.POST("/login", authRL, h.Login)
		a.POST("/refresh", authRL, h.Refresh)
		a.POST("/logout", auth, h.Logout)
		a.GET("/me", auth, h.Me)
		a.PATCH("/me", auth, h.UpdateMe)
		a.POST("/change-password", authRL, auth, h.ChangePassword)
		a.POST("/reset-password-request", authRL, h.RequestPasswordReset)
		a.POST("/reset-password", authRL, h.ResetPassword)
	}

	// AI learning plans
	api.POST("/generate-path", authRL, h.GeneratePath)

	// User
	api.GET("/user/me", auth, h.Me)
	api.GET("/user/progress", auth, h.Progress)
	api.GET("/me/transactions", auth, h.MyTransactions)
	api.GET("/me/activity", auth, h.MyActivity)

	// Catalog
	api.GET("/learning-paths", h.ListPaths)
	api.GET("/learning-paths/:id", h.GetPath)
	api.GET("/learning-paths/:id/skill-tree", middleware.OptionalJWT(d.Resolver), h.SkillTree)

	// Progression
	api.POST("/lessons/:id/complete", auth, userRL, h.CompleteLesson)
	api.POST("/skills/:id/unlock", auth, userRL, h.UnlockSkill)

	// Shop
	shop := api.Group("/shop/themes")
	shop.Use(auth)
	{
		shop.GET("", h.ListThemes)
		shop.POST("/:theme_id/purchase", userRL, h.PurchaseTheme)
		shop.POST("/:theme_id/activate", userRL, h.ActivateTheme)
	}
}

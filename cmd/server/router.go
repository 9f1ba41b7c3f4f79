package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/insighthire/insighthire-backend/internal/analytics"
	"github.com/insighthire/insighthire-backend/internal/cache"
	"github.com/insighthire/insighthire-backend/internal/config"
	"github.com/insighthire/insighthire-backend/internal/database"
	"github.com/insighthire/insighthire-backend/internal/monitoring"
	"github.com/insighthire/insighthire-backend/internal/ratelimit"
	"github.com/insighthire/insighthire-backend/internal/relay"
	"github.com/insighthire/insighthire-backend/internal/security"

	apperrors "github.com/insighthire/insighthire-backend/internal/errors"
)

// application bundles the wired dependencies behind the HTTP handlers.
// Everything is constructed once in main and passed down explicitly; there
// are no package-level singletons.
type application struct {
	cfg      *config.Config
	logger   *monitoring.Logger
	metrics  *monitoring.Metrics
	db       *database.DB
	repo     *database.Repository
	users    *database.UserService
	store    analytics.TrendProvider
	sample   analytics.TrendProvider
	bus      *relay.Bus
	hub      *relay.Hub
	appCache *cache.Cache
	limiter  *ratelimit.RateLimiter
}

func newApplication(cfg *config.Config, db *database.DB, redisClient *ratelimit.RedisClient) *application {
	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLogger()

	repo := database.NewRepository(db)
	bus := relay.NewBus()

	limitCfg := ratelimit.DefaultConfig()
	limitCfg.IPLimitPerMin = cfg.IPLimitPerMin

	return &application{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		db:       db,
		repo:     repo,
		users:    database.NewUserService(repo, cfg.JWTSecret, cfg.TokenTTL),
		store:    analytics.NewStoreProvider(repo),
		sample:   analytics.NewSampleProvider(),
		bus:      bus,
		hub:      relay.NewHub(bus, metrics, logger),
		appCache: cache.NewCache(cfg.CacheTTL),
		limiter:  ratelimit.NewRateLimiter(redisClient, limitCfg, metrics),
	}
}

// routes assembles the Gin engine with the full middleware chain.
func (app *application) routes() *gin.Engine {
	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(app.metrics, app.logger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(security.SecurityHeadersMiddleware(app.cfg.EnableHSTS))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = app.cfg.AllowOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.Use(app.limiter.Middleware())
	r.Use(app.appCache.Middleware(app.metrics, app.logger, "/api/analytics", "/api/roles"))

	r.GET("/health", app.handleHealth)
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, app.metrics.GetStats())
	})
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, app.appCache.Stats())
	})
	r.GET("/pools/database", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "database",
			"stats": app.db.GetPoolStats(),
		})
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", app.handleRegister)
		auth.POST("/login", app.handleLogin)
	}

	api := r.Group("/api")
	api.Use(security.AuthRequired(app.users))
	{
		api.GET("/roles", app.handleListRoles)
		api.POST("/roles", app.handleCreateRole)
		api.GET("/roles/:id", app.handleGetRole)
		api.PUT("/roles/:id", app.handleUpdateRole)
		api.DELETE("/roles/:id", app.handleDeleteRole)

		api.POST("/sessions", app.handleCreateSession)
		api.GET("/sessions/:id", app.handleGetSession)
		api.DELETE("/sessions/:id", app.handleDeleteSession)

		api.POST("/sessions/:id/records", app.handleIngestRecords)
		api.GET("/sessions/:id/records", app.handleListRecords)

		api.POST("/sessions/:id/score", app.handleScoreSession)
		api.GET("/sessions/:id/reports", app.handleListReports)

		api.GET("/analytics/trends/:roleID", app.handleRoleTrends)

		api.GET("/ws", app.hub.Handler())
	}

	return r
}

func (app *application) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

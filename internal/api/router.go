package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/realtydir/directory-api/docs"
	"github.com/realtydir/directory-api/internal/api/handler"
	apimw "github.com/realtydir/directory-api/internal/api/middleware"
	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/service"
	"github.com/realtydir/directory-api/internal/pkg/config"
	mongodb "github.com/realtydir/directory-api/internal/infrastructure/db/mongo"
	redisdb "github.com/realtydir/directory-api/internal/infrastructure/db/redis"
)

// NewRouter builds the Echo instance with all dependencies constructed and
// all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("directory"))

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	agencyRepo := mongodb.NewAgencyRepository(db)
	listingRepo := mongodb.NewListingRepository(db)
	imageRepo := mongodb.NewImageRepository(db)

	// --- Services ---
	tokenService := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
	})
	throttle := redisdb.NewLoginThrottle(rdb, cfg.LoginThrottle.Max, cfg.LoginThrottle.Window)
	authService := service.NewAuthService(userRepo, tokenService, throttle, domain.Role(cfg.DefaultRole), log)
	listingService := service.NewListingService(listingRepo, imageRepo, agencyRepo, log)
	imageService := service.NewImageService(imageRepo, listingRepo, log)
	agencyService := service.NewAgencyService(agencyRepo, log)
	userService := service.NewUserService(userRepo, log)
	statsService := service.NewStatsService(userRepo, agencyRepo, listingRepo, imageRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	listingHandler := handler.NewListingHandler(listingService)
	imageHandler := handler.NewImageHandler(imageService)
	agencyHandler := handler.NewAgencyHandler(agencyService)
	userHandler := handler.NewUserHandler(userService)
	statsHandler := handler.NewStatsHandler(statsService)

	auth := apimw.Auth(tokenService, userRepo)
	optionalAuth := apimw.OptionalAuth(tokenService, userRepo)
	agentOrAdmin := apimw.RequireRoles(domain.RoleAgent, domain.RoleAdmin)
	adminOnly := apimw.RequireRoles(domain.RoleAdmin)

	// --- Health probes and operational endpoints (no auth) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Auth ---
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/profile", authHandler.Profile, auth)
	authGroup.PUT("/profile", authHandler.UpdateProfile, auth)
	authGroup.PUT("/password", authHandler.ChangePassword, auth)
	authGroup.POST("/refresh", authHandler.Refresh, auth)

	// --- Users (admin unless self) ---
	users := v1.Group("/users", auth)
	users.GET("", userHandler.List, adminOnly)
	users.POST("", userHandler.Create, adminOnly)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Agencies ---
	agencies := v1.Group("/agencies", auth)
	agencies.GET("", agencyHandler.List)
	agencies.GET("/:id", agencyHandler.Get)
	agencies.GET("/:id/children", agencyHandler.Children)
	agencies.POST("", agencyHandler.Create, adminOnly)
	agencies.PUT("/:id", agencyHandler.Update, adminOnly)
	agencies.DELETE("/:id", agencyHandler.Delete, adminOnly)

	// --- Listings (catalog is public; mutation gated) ---
	listings := v1.Group("/listings")
	listings.GET("", listingHandler.List, optionalAuth)
	listings.GET("/mine", listingHandler.Mine, auth, agentOrAdmin)
	listings.GET("/agent/:agentId", listingHandler.ByAgent, auth)
	listings.GET("/agency/:agencyId", listingHandler.ByAgency, auth)
	listings.GET("/:listingId", listingHandler.Get, optionalAuth)
	listings.POST("", listingHandler.Create, auth, agentOrAdmin)
	listings.PUT("/:listingId", listingHandler.Update, auth, agentOrAdmin)
	listings.DELETE("/:listingId", listingHandler.Delete, auth, agentOrAdmin)

	// --- Images ---
	listings.GET("/:listingId/images", imageHandler.ListForListing, optionalAuth)
	listings.POST("/:listingId/images", imageHandler.Add, auth, agentOrAdmin)
	images := v1.Group("/images", auth, agentOrAdmin)
	images.PUT("/:id", imageHandler.Update)
	images.DELETE("/:id", imageHandler.Delete)

	// --- Stats ---
	stats := v1.Group("/stats", auth)
	stats.GET("", statsHandler.Stats, adminOnly)
	stats.GET("/dashboard", statsHandler.Dashboard)

	return e
}

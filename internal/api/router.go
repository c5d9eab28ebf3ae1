package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/platformsec/user-access-api/internal/api/handler"
	"github.com/platformsec/user-access-api/internal/api/middleware"
	"github.com/platformsec/user-access-api/internal/core/domain"
	"github.com/platformsec/user-access-api/internal/core/service"
	mongostore "github.com/platformsec/user-access-api/internal/infrastructure/db/mongo"
	redisstore "github.com/platformsec/user-access-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("user_access"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	identityCache := redisstore.NewIdentityCache(rdb, userRepo)
	authService := service.NewAuthService(userRepo, jwtSecret, time.Hour, log)
	userService := service.NewUserService(userRepo, identityCache, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	verify := middleware.Auth(jwtSecret, identityCache)

	// --- Public routes ---
	e.POST("/auth/generate-token", authHandler.GenerateToken)
	e.POST("/login", authHandler.Login)

	// --- Protected routes ---
	e.POST("/superadmin/create", userHandler.SuperAdminCreate, verify, middleware.RBAC(domain.RoleSuperAdmin))
	e.POST("/admin/create", userHandler.AdminCreate, verify, middleware.RBAC(domain.RoleAdmin))
	e.GET("/all", userHandler.List, verify, middleware.RBAC(domain.RoleAdmin, domain.RoleSuperAdmin))
	e.DELETE("/:email", userHandler.Delete, verify, middleware.RBAC(domain.RoleAdmin, domain.RoleSuperAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

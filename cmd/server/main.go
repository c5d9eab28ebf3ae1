package main

import (
	"context"
	"errors"
	"net/http"

	_ "github.com/platformsec/user-access-api/docs" // swagger docs

	"github.com/platformsec/user-access-api/internal/api"
	"github.com/platformsec/user-access-api/internal/infrastructure/config"
	mongostore "github.com/platformsec/user-access-api/internal/infrastructure/db/mongo"
	redisstore "github.com/platformsec/user-access-api/internal/infrastructure/db/redis"
	"github.com/platformsec/user-access-api/pkg/logger"
)

// @title User Access API
// @version 1.0
// @description Authentication and role-based user management service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// Unique email index: duplicate creates are resolved by the store, not
	// by an application-level existence check.
	if err := mongostore.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is not set; token issuance will fail until it is configured")
	}

	e := api.NewRouter(db, rdb, cfg.JWTSecret, log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")

	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nimasrn/storefront-backoffice/internal/auth"
	"github.com/nimasrn/storefront-backoffice/internal/config"
	"github.com/nimasrn/storefront-backoffice/internal/expiry"
	"github.com/nimasrn/storefront-backoffice/internal/handlers"
	"github.com/nimasrn/storefront-backoffice/internal/idempotency"
	"github.com/nimasrn/storefront-backoffice/internal/repository"
	"github.com/nimasrn/storefront-backoffice/internal/services"
	xhttp "github.com/nimasrn/storefront-backoffice/pkg/http"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
	"github.com/nimasrn/storefront-backoffice/pkg/pg"
	"github.com/nimasrn/storefront-backoffice/pkg/prom"
	"github.com/nimasrn/storefront-backoffice/pkg/redis"
	"github.com/nimasrn/storefront-backoffice/pkg/storage"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	if err = logger.Configure(cfg.AppEnv, cfg.LogLevel); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}
	logger.Info("starting api", "version", version, "commit", commit, "date", date)

	if cfg.AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err = prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed to register metrics", "error", err)
			return
		}
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	// transport
	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.CORSMiddleware(cfg.HttpCORSOrigins))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(prom.RequestMetricsMiddleware)
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))
	s.Router = xhttp.CreateDefaultRouter()

	readConf := pg.Config{
		User:     cfg.PostgresReadUser,
		Host:     cfg.PostgresReadHost,
		Port:     cfg.PostgresReadPort,
		Password: cfg.PostgresReadPassword,
		Database: cfg.PostgresReadDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	}
	writeConf := pg.Config{
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
		SSLMode:  cfg.PostgresSSLMode,
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, cfg.AppEnv == "dev")
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{cfg.RedisAddr},
		ClientName: "default",
		DB:         cfg.RedisDatabase,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	objects, err := storage.New(initCtx, storage.Config{
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Bucket:        cfg.S3Bucket,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	cancel()
	if err != nil {
		logger.Error("failed configuring object storage", "error", err)
		return
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	adjustmentRepo := repository.NewPointAdjustmentRepository(db)
	grantRepo := repository.NewPendingPhoneGrantRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	// services
	parser := expiry.NewParser(cfg.Location())
	pointsService := services.NewPointsService(userRepo, adjustmentRepo, parser)
	grantService := services.NewPhoneGrantService(grantRepo, parser)
	userService := services.NewUserService(userRepo)
	catalogService := services.NewCatalogService(catalogRepo, objects)
	adminService := services.NewAdminService(
		auth.NewVerifier(cfg.IdentityJWTSecret, cfg.IdentityIssuer),
		userRepo,
		services.NewRedisProfileCache(redisAdap, cfg.AdminRoleCacheTTL),
	)

	idemConf := idempotency.DefaultConfig()
	idemConf.ResultTTL = cfg.IdempotencyTTL
	guard := idempotency.NewGuard(redisAdap, idemConf)

	// handlers
	requireAdmin := handlers.RequireAdmin(adminService)
	pointsHandler := handlers.NewPointsHandler(pointsService, grantService, guard)
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	healthHandler := handlers.NewHealthHandler(
		handlers.HealthCheck{Name: "postgres", Ping: db.Ping},
		handlers.HealthCheck{Name: "redis", Ping: redisAdap.Ping},
	)

	api := s.Router.Group("/api")
	admin := api.Group("/admin")
	handlers.RegisterPointsRoutes(admin, pointsHandler, requireAdmin)
	handlers.RegisterUserRoutes(admin, userHandler, requireAdmin)
	handlers.RegisterCatalogAdminRoutes(admin, catalogHandler, requireAdmin)
	handlers.RegisterCatalogPublicRoutes(api, catalogHandler)
	handlers.RegisterHealthRoutes(api.Group("/v1"), healthHandler)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--env=") {
			path := strings.TrimPrefix(v, "--env=")
			if _, err := os.Stat(path); err != nil {
				logger.Error("failed to open the passed env file", "path", path, "error", err)
				return ""
			}
			return path
		}
	}
	return ""
}

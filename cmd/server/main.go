package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/cache"
	"github.com/SAP-F-2025/mocktest-service/internal/config"
	"github.com/SAP-F-2025/mocktest-service/internal/events"
	"github.com/SAP-F-2025/mocktest-service/internal/handlers"
	"github.com/SAP-F-2025/mocktest-service/internal/middleware"
	"github.com/SAP-F-2025/mocktest-service/internal/mocktest"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/mocktest-service/internal/services"
	"github.com/SAP-F-2025/mocktest-service/internal/utils"
	"github.com/SAP-F-2025/mocktest-service/internal/validator"
	"github.com/SAP-F-2025/mocktest-service/internal/ws"
	"github.com/SAP-F-2025/mocktest-service/pkg"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewDefaultLogger().Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}
	if err := pkg.AutoMigrate(db); err != nil {
		logger.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}
	repo := postgres.NewRepository(db)

	healthChecks := map[string]handlers.HealthCheckFunc{"database": repo.Ping}

	cacheService := cache.NewNoopCache()
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, statistics will not be cached", "error", err)
	} else {
		cacheService = cache.NewRedisCache(redisClient, logger)
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher, using mock", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}

	v := validator.New()

	questionService := services.NewQuestionService(repo, publisher, slogger, v)
	resultService := services.NewMockResultService(repo, cacheService, slogger, cfg.MockTest.PassPercent, cfg.MockTest.StatsCacheTTL)
	importExportService := services.NewImportExportService(repo, publisher, slogger, v)
	recorder := services.NewResultRecorder(repo, publisher, resultService, slogger, services.RecorderConfig{
		QueueSize:   cfg.MockTest.ResultQueueSize,
		Workers:     cfg.MockTest.ResultWorkers,
		SaveTimeout: cfg.MockTest.ResultSaveTimeout,
	})

	coordinator := mocktest.NewCoordinator(questionService, recorder, v, logger, mocktest.Options{
		QuestionCount: cfg.MockTest.QuestionCount,
		RestartPolicy: mocktest.RestartPolicy(cfg.MockTest.RestartPolicy),
	})
	hub := ws.NewHub(logger)

	// LoadConfig refuses production without Casdoor
	var adminAuth gin.HandlerFunc
	if cfg.Casdoor.Enabled() {
		adminAuth = middleware.AdminAuth(middleware.NewCasdoorParser(cfg.Casdoor), logger)
	} else {
		adminAuth = middleware.OpenAccess(logger)
	}

	handlerManager := handlers.NewHandlerManager(
		handlers.NewQuestionHandler(questionService, importExportService, logger),
		handlers.NewMockResultHandler(resultService, importExportService, logger),
		handlers.NewMockTestHandler(coordinator, hub, cfg.CORSAllowedOrigins, logger),
		handlers.NewHealthHandler(healthChecks),
		adminAuth,
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Hijacked websocket connections are not closed by Shutdown
	hub.CloseAll("server shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		logger.LogError(err, "Server shutdown failed")
	}
	if err := recorder.Close(ctx); err != nil {
		logger.LogError(err, "Pending results were not all saved")
	}
	if err := publisher.Close(); err != nil {
		logger.LogError(err, "Failed to close event publisher")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := repo.Close(); err != nil {
		logger.LogError(err, "Failed to close database")
	}
	logger.Info("Server stopped")
}

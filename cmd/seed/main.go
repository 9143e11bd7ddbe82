package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/SAP-F-2025/mocktest-service/internal/config"
	"github.com/SAP-F-2025/mocktest-service/internal/events"
	"github.com/SAP-F-2025/mocktest-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/mocktest-service/internal/seed"
	"github.com/SAP-F-2025/mocktest-service/internal/services"
	"github.com/SAP-F-2025/mocktest-service/internal/utils"
	"github.com/SAP-F-2025/mocktest-service/internal/validator"
	"github.com/SAP-F-2025/mocktest-service/pkg"
)

func main() {
	replace := flag.Bool("replace", true, "delete the existing question pool before seeding")
	flag.Parse()

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
	defer repo.Close()

	questions, err := seed.Questions()
	if err != nil {
		logger.LogError(err, "Failed to load bundled questions")
		os.Exit(1)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Warn("Event publisher unavailable, using mock", "error", err)
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer publisher.Close()

	questionService := services.NewQuestionService(repo, publisher, slogger, validator.New())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := questionService.Seed(ctx, questions, *replace)
	if err != nil {
		logger.LogError(err, "Seeding failed")
		os.Exit(1)
	}
	logger.Info("Question pool seeded", "deleted", result.Deleted, "created", result.Created)
}

package main

import (
	"context"
	"log/slog"
	"os"

	"SmartSensor.dynamoDB/internal/config"
	"SmartSensor.dynamoDB/internal/handler"
	"SmartSensor.dynamoDB/internal/logger"
	"SmartSensor.dynamoDB/internal/repository"
	"SmartSensor.dynamoDB/internal/service"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}
	log := logger.InitLogger(cfg.LogLevel)
	log.Info("Sensor query: cold start", "backend", cfg.StoreBackend, "table", cfg.TableName)

	// one store client per execution environment, shared by every invocation
	repo, closeRepo, err := repository.NewFromConfig(context.Background(), cfg)
	if err != nil {
		log.Error("Failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	queryHandler := handler.NewQueryHandler(service.NewReadingService(repo, cfg.MaxLimit), handler.Options{
		AllowedOrigin:       cfg.AllowedOrigin,
		RejectInvalidParams: cfg.RejectInvalidParams,
		Logger:              log,
	})

	lambda.Start(queryHandler.HandleAPIGateway)
}

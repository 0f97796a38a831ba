package main

import (
	"context"
	"log/slog"
	"os"

	"SmartSensor.dynamoDB/internal/config"
	"SmartSensor.dynamoDB/internal/controller"
	"SmartSensor.dynamoDB/internal/handler"
	"SmartSensor.dynamoDB/internal/logger"
	"SmartSensor.dynamoDB/internal/metrics"
	"SmartSensor.dynamoDB/internal/repository"
	"SmartSensor.dynamoDB/internal/server"
	"SmartSensor.dynamoDB/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Error loading configuration", "error", err)
		os.Exit(1)
	}
	log := logger.InitLogger(cfg.LogLevel)

	repo, closeRepo, err := repository.NewFromConfig(context.Background(), cfg)
	if err != nil {
		log.Error("Failed to initialize store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize service, handler and controller
	svc := service.NewReadingService(repo, cfg.MaxLimit)
	queryHandler := handler.NewQueryHandler(svc, handler.Options{
		AllowedOrigin:       cfg.AllowedOrigin,
		RejectInvalidParams: cfg.RejectInvalidParams,
		Logger:              log,
		Metrics:             metrics.New(reg),
	})
	readings := controller.NewReadingController(queryHandler)

	h := server.NewHandler(cfg.AllowedOrigin, readings, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), log)

	log.Info("Starting sensor query server", "backend", cfg.StoreBackend, "table", cfg.TableName, "port", cfg.Port)
	if err := server.New(cfg.Port, h, log).Start(); err != nil {
		log.Error("Server error", "error", err)
		os.Exit(1)
	}
}

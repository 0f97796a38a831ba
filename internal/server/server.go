package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SmartSensor.dynamoDB/internal/controller"
	"SmartSensor.dynamoDB/internal/routes"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Server represents our HTTP server
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewHandler builds the router wrapped in CORS, access logging and panic recovery.
func NewHandler(allowedOrigin string, readings *controller.ReadingController, metricsHandler http.Handler, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	routes.RegisterRoutes(router, readings, metricsHandler)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{allowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)
	return handlers.CombinedLoggingHandler(os.Stdout, recovery(c.Handler(router)))
}

// New creates a new server instance
func New(port string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logger,
	}
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("error starting server: %w", err)
	case sig := <-quit:
		s.logger.Info("Shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	s.logger.Info("Server shut down successfully")
	return nil
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"SmartSensor.dynamoDB/internal/metrics"
	"SmartSensor.dynamoDB/internal/models"
	"SmartSensor.dynamoDB/internal/service"
	"github.com/google/uuid"
)

const (
	errorMessage        = "error querying DynamoDB"
	invalidParamMessage = "invalid query parameter"
)

// Options configures a QueryHandler.
type Options struct {
	AllowedOrigin       string
	RejectInvalidParams bool // answer parameter errors with 400 instead of 500
	Logger              *slog.Logger
	Metrics             *metrics.Metrics
}

// QueryHandler answers one sensor reading query per call.
type QueryHandler struct {
	service             *service.ReadingService
	allowedOrigin       string
	rejectInvalidParams bool
	logger              *slog.Logger
	metrics             *metrics.Metrics
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(svc *service.ReadingService, opts Options) *QueryHandler {
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &QueryHandler{
		service:             svc,
		allowedOrigin:       opts.AllowedOrigin,
		rejectInvalidParams: opts.RejectInvalidParams,
		logger:              opts.Logger,
		metrics:             opts.Metrics,
	}
}

// Handle turns query-string parameters into a 200 or an error response.
// It never panics and never returns a partial response.
func (h *QueryHandler) Handle(ctx context.Context, params map[string]string) (resp models.HTTPResponse) {
	start := time.Now()
	log := h.logger.With("request_id", uuid.NewString())
	mode := service.ModeScan

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered panic while handling query", "panic", r)
			resp = h.failure(models.NewTransformError("handler", fmt.Errorf("internal error: %v", r)))
		}
		h.metrics.Observe(mode, resp.StatusCode, time.Since(start))
	}()

	req, err := ParseQueryRequest(params)
	mode = service.ModeOf(req)
	if err != nil {
		log.Warn("Invalid query parameter", "error", err)
		return h.failure(err)
	}

	result, err := h.service.GetReadings(ctx, req)
	if err != nil {
		log.Error("Query failed",
			"mode", mode,
			"kind", models.KindOf(err),
			"aws_error_code", models.CodeOf(err),
			"error", err)
		return h.failure(err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		err = models.NewTransformError("encode response", err)
		log.Error("Query failed", "mode", mode, "kind", models.KindOf(err), "error", err)
		return h.failure(err)
	}

	log.Info("Query served",
		"mode", mode,
		"sensor_id", req.SensorID,
		"limit", h.service.EffectiveLimit(req.Limit),
		"count", result.Count,
		"truncated", result.LastEvaluatedKey != nil,
		"duration", time.Since(start))

	return models.HTTPResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Access-Control-Allow-Origin":  h.allowedOrigin,
			"Access-Control-Allow-Headers": "Content-Type",
			"Content-Type":                 "application/json",
		},
		Body: string(body),
	}
}

func (h *QueryHandler) failure(err error) models.HTTPResponse {
	status, message := http.StatusInternalServerError, errorMessage
	if h.rejectInvalidParams && models.KindOf(err) == models.ErrorKindParameter {
		status, message = http.StatusBadRequest, invalidParamMessage
	}

	// both fields are strings, Marshal cannot fail
	body, _ := json.Marshal(models.ErrorResponse{Message: message, Error: err.Error()})

	return models.HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Access-Control-Allow-Origin": h.allowedOrigin,
			"Content-Type":                "application/json",
		},
		Body: string(body),
	}
}

package utils

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"SmartSensor.dynamoDB/internal/models"
)

// WriteResponse copies a handler response onto the writer.
// Headers must be set before WriteHeader.
func WriteResponse(writer http.ResponseWriter, resp models.HTTPResponse) {
	for key, value := range resp.Headers {
		writer.Header().Set(key, value)
	}
	writer.WriteHeader(resp.StatusCode)
	if _, err := io.WriteString(writer, resp.Body); err != nil {
		slog.Warn("Failed to write response body", "error", err)
	}
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		slog.Warn("Failed to encode JSON response", "error", err)
	}
}

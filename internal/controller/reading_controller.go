package controller

import (
	"net/http"

	"SmartSensor.dynamoDB/internal/handler"
	"SmartSensor.dynamoDB/internal/utils"
)

// ReadingController handles HTTP requests for sensor readings.
type ReadingController struct {
	handler *handler.QueryHandler
}

// NewReadingController creates a new ReadingController.
func NewReadingController(h *handler.QueryHandler) *ReadingController {
	return &ReadingController{
		handler: h,
	}
}

// HandleQueryReadings serves GET /readings.
func (c *ReadingController) HandleQueryReadings(w http.ResponseWriter, r *http.Request) {
	resp := c.handler.Handle(r.Context(), queryParams(r))
	utils.WriteResponse(w, resp)
}

// queryParams flattens the query string the way API Gateway does:
// for a repeated key the last value wins.
func queryParams(r *http.Request) map[string]string {
	query := r.URL.Query()
	params := make(map[string]string, len(query))
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[len(values)-1]
		}
	}
	return params
}

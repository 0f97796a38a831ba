package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"SmartSensor.dynamoDB/internal/models"
)

// ParseQueryRequest reads id, limit, start_ts, end_ts and start_key.
// The bounds are only parsed when id and both bounds are present, because
// they are ignored otherwise.
func ParseQueryRequest(params map[string]string) (models.QueryRequest, error) {
	req := models.QueryRequest{
		SensorID: params["id"],
		Limit:    models.DefaultLimit,
	}

	if raw := strings.TrimSpace(params["limit"]); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return req, models.NewParameterError("limit", err)
		}
		if limit < 0 {
			return req, models.NewParameterError("limit", fmt.Errorf("must not be negative, got %d", limit))
		}
		req.Limit = limit
	}

	startRaw, endRaw := params["start_ts"], params["end_ts"]
	if req.SensorID != "" && startRaw != "" && endRaw != "" {
		start, err := strconv.ParseInt(strings.TrimSpace(startRaw), 10, 64)
		if err != nil {
			return req, models.NewParameterError("start_ts", err)
		}
		end, err := strconv.ParseInt(strings.TrimSpace(endRaw), 10, 64)
		if err != nil {
			return req, models.NewParameterError("end_ts", err)
		}
		req.StartTS, req.EndTS = &start, &end
	}

	if raw := strings.TrimSpace(params["start_key"]); raw != "" {
		var key map[string]interface{}
		dec := json.NewDecoder(strings.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&key); err != nil {
			return req, models.NewParameterError("start_key", err)
		}
		if dec.More() {
			return req, models.NewParameterError("start_key", fmt.Errorf("unexpected data after JSON object"))
		}
		req.StartKey = key
	}

	return req, nil
}

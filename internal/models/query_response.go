package models

// QueryResponse is the success body.
type QueryResponse struct {
	Items            []SensorReading        `json:"items"`
	Count            int                    `json:"count"`
	LastEvaluatedKey map[string]interface{} `json:"lastEvaluatedKey"` // for pagination
}

// ErrorResponse is the failure body.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// HTTPResponse is a transport-neutral response: API Gateway and net/http
// adapters copy it as-is.
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

package models

// DefaultLimit is used when the caller does not send a limit.
const DefaultLimit = 100

// QueryRequest holds the parsed query-string parameters of one invocation.
type QueryRequest struct {
	SensorID string                 `json:"id"`
	Limit    int                    `json:"limit"`
	StartTS  *int64                 `json:"start_ts,omitempty"`
	EndTS    *int64                 `json:"end_ts,omitempty"`
	StartKey map[string]interface{} `json:"start_key,omitempty"` // lastEvaluatedKey of the previous page
}

// HasRange reports whether both bounds were given.
func (q QueryRequest) HasRange() bool {
	return q.StartTS != nil && q.EndTS != nil
}

// TimeRange is an inclusive sort-key range.
type TimeRange struct {
	Start int64
	End   int64
}

// RangeQuery selects readings of one sensor, optionally narrowed to a range.
type RangeQuery struct {
	PartitionKey string
	Range        *TimeRange
	Limit        int
	Descending   bool
	StartKey     map[string]interface{}
}

// ScanRequest reads across the whole table.
type ScanRequest struct {
	Limit    int
	StartKey map[string]interface{}
}

// Page is one result set returned by a repository.
// LastEvaluatedKey is nil unless the store truncated the result.
type Page struct {
	Items            []SensorReading
	LastEvaluatedKey map[string]interface{}
}

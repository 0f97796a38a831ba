package service

import (
	"context"

	"SmartSensor.dynamoDB/internal/models"
	"SmartSensor.dynamoDB/internal/repository"
)

// Query modes, used for logging and metrics labels.
const (
	ModeRange     = "range"
	ModePartition = "partition"
	ModeScan      = "scan"
)

// ReadingService turns a QueryRequest into exactly one store read.
type ReadingService struct {
	repo     repository.Repository
	maxLimit int
}

// NewReadingService creates a new ReadingService. maxLimit caps the
// requested limit; 0 disables the cap.
func NewReadingService(repo repository.Repository, maxLimit int) *ReadingService {
	return &ReadingService{
		repo:     repo,
		maxLimit: maxLimit,
	}
}

// ModeOf reports which read a request selects.
func ModeOf(req models.QueryRequest) string {
	switch {
	case req.SensorID != "" && req.HasRange():
		return ModeRange
	case req.SensorID != "":
		return ModePartition
	default:
		return ModeScan
	}
}

// EffectiveLimit applies the configured cap.
func (s *ReadingService) EffectiveLimit(limit int) int {
	if s.maxLimit > 0 && limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// GetReadings runs the query or scan and converts the result to native types.
func (s *ReadingService) GetReadings(ctx context.Context, req models.QueryRequest) (models.QueryResponse, error) {
	limit := s.EffectiveLimit(req.Limit)

	var (
		page models.Page
		err  error
	)
	switch ModeOf(req) {
	case ModeRange:
		page, err = s.repo.Query(ctx, models.RangeQuery{
			PartitionKey: req.SensorID,
			Range:        &models.TimeRange{Start: *req.StartTS, End: *req.EndTS},
			Limit:        limit,
			Descending:   true,
			StartKey:     req.StartKey,
		})
	case ModePartition:
		page, err = s.repo.Query(ctx, models.RangeQuery{
			PartitionKey: req.SensorID,
			Limit:        limit,
			Descending:   true,
			StartKey:     req.StartKey,
		})
	default:
		// scan order is store-defined; no descending option here
		page, err = s.repo.Scan(ctx, models.ScanRequest{Limit: limit, StartKey: req.StartKey})
	}
	if err != nil {
		if models.KindOf(err) == models.ErrorKindUnknown {
			err = models.NewStoreError(ModeOf(req), "", err)
		}
		return models.QueryResponse{}, err
	}

	items, err := toNativeReadings(page.Items)
	if err != nil {
		return models.QueryResponse{}, models.NewTransformError("items", err)
	}
	lastKey, err := keyToJSON(page.LastEvaluatedKey)
	if err != nil {
		return models.QueryResponse{}, models.NewTransformError("lastEvaluatedKey", err)
	}

	return models.QueryResponse{
		Items:            items,
		Count:            len(items),
		LastEvaluatedKey: lastKey,
	}, nil
}

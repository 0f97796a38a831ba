package repository

import (
	"context"

	"SmartSensor.dynamoDB/internal/models"
)

// Key attribute names of the sensor table.
const (
	PartitionKey = "ID"
	SortKey      = "timestamp"
)

// Repository Interface
type Repository interface {
	Query(ctx context.Context, query models.RangeQuery) (models.Page, error)
	Scan(ctx context.Context, scan models.ScanRequest) (models.Page, error)
}

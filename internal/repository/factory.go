package repository

import (
	"context"
	"fmt"

	"SmartSensor.dynamoDB/internal/config"
)

// NewFromConfig builds the repository selected by STORE_BACKEND.
// The returned func releases backend resources.
func NewFromConfig(ctx context.Context, cfg config.Config) (Repository, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendInfluxDB:
		repo := NewInfluxDBRepository(cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg, cfg.InfluxDBBucket, cfg.InfluxDBMeasurement)
		if err := repo.Ping(ctx); err != nil {
			repo.Close()
			return nil, nil, err
		}
		if err := repo.CheckBucket(ctx); err != nil {
			repo.Close()
			return nil, nil, err
		}
		return repo, repo.Close, nil
	case config.BackendDynamoDB:
		client, err := NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
		if err != nil {
			return nil, nil, err
		}
		return NewDynamoDBRepository(client, cfg.TableName), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

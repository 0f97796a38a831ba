// internal/repository/influxdb_repository.go

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"SmartSensor.dynamoDB/internal/models"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// maxPrealloc bounds the capacity reserved up front; large pages grow on append.
const maxPrealloc = 1024

// InfluxDBRepository reads sensor readings from an InfluxDB bucket.
// Each point carries the sensor ID as a tag; fields become attributes and
// the point time (Unix seconds) becomes the timestamp.
type InfluxDBRepository struct {
	client      influxdb2.Client
	org         string
	bucket      string
	measurement string
}

// NewInfluxDBRepository creates a new InfluxDBRepository.
func NewInfluxDBRepository(url, token, org, bucket, measurement string) *InfluxDBRepository {
	return &InfluxDBRepository{
		client:      influxdb2.NewClient(url, token),
		org:         org,
		bucket:      bucket,
		measurement: measurement,
	}
}

// Ping checks the connection health.
func (r *InfluxDBRepository) Ping(ctx context.Context) error {
	health, err := r.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		return fmt.Errorf("InfluxDB health check failed: %s", msg)
	}
	return nil
}

// CheckBucket verifies the configured bucket exists and is not a system bucket.
func (r *InfluxDBRepository) CheckBucket(ctx context.Context) error {
	if isSystemBucket(r.bucket) {
		return fmt.Errorf("bucket %q is a system bucket", r.bucket)
	}
	if _, err := r.client.BucketsAPI().FindBucketByName(ctx, r.bucket); err != nil {
		return fmt.Errorf("bucket %q not found: %w", r.bucket, err)
	}
	return nil
}

func isSystemBucket(name string) bool {
	return strings.HasPrefix(name, "_")
}

// Close releases the client's resources.
func (r *InfluxDBRepository) Close() {
	r.client.Close()
}

// Query reads one sensor's readings, most recent first.
func (r *InfluxDBRepository) Query(ctx context.Context, query models.RangeQuery) (models.Page, error) {
	offset, err := offsetFrom(query.StartKey)
	if err != nil {
		return models.Page{}, err
	}
	if query.Limit < 1 {
		return emptyPage(), nil
	}
	flux := buildQueryFlux(r.bucket, r.measurement, query, offset)
	return r.run(ctx, "query", flux, query.Limit, offset)
}

// Scan reads readings of every sensor in store order.
func (r *InfluxDBRepository) Scan(ctx context.Context, scan models.ScanRequest) (models.Page, error) {
	offset, err := offsetFrom(scan.StartKey)
	if err != nil {
		return models.Page{}, err
	}
	if scan.Limit < 1 {
		return emptyPage(), nil
	}
	flux := buildScanFlux(r.bucket, r.measurement, scan.Limit, offset)
	return r.run(ctx, "scan", flux, scan.Limit, offset)
}

func (r *InfluxDBRepository) run(ctx context.Context, op, flux string, limit, offset int) (models.Page, error) {
	slog.Debug("Executing InfluxDB query", "query", flux)

	result, err := r.client.QueryAPI(r.org).Query(ctx, flux)
	if err != nil {
		return models.Page{}, models.NewStoreError(op, "", fmt.Errorf("error querying InfluxDB: %w", err))
	}
	defer result.Close()

	items := make([]models.SensorReading, 0, min(limit, maxPrealloc))
	for result.Next() {
		record := result.Record()
		items = append(items, readingFromRecord(record.Values(), record.Time()))
	}
	if result.Err() != nil {
		return models.Page{}, models.NewStoreError(op, "", fmt.Errorf("error during query iteration: %w", result.Err()))
	}

	return paginate(items, limit, offset), nil
}

// buildQueryFlux fetches limit+1 rows so truncation can be detected.
func buildQueryFlux(bucket, measurement string, query models.RangeQuery, offset int) string {
	start, stop := "0", "now()"
	if query.Range != nil {
		start = fluxTime(query.Range.Start)
		stop = fluxTime(saturatingAdd(query.Range.End, 1)) // stop is exclusive
	}
	return fmt.Sprintf(`from(bucket: "%s")
	|> range(start: %s, stop: %s)
	|> filter(fn: (r) => r["_measurement"] == "%s")
	|> filter(fn: (r) => r["%s"] == "%s")
	|> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
	|> group()
	|> sort(columns: ["_time"], desc: %t)
	|> limit(n: %d, offset: %d)`,
		escapeFlux(bucket), start, stop, escapeFlux(measurement),
		PartitionKey, escapeFlux(query.PartitionKey),
		query.Descending, plusOne(query.Limit), offset)
}

func buildScanFlux(bucket, measurement string, limit, offset int) string {
	return fmt.Sprintf(`from(bucket: "%s")
	|> range(start: 0)
	|> filter(fn: (r) => r["_measurement"] == "%s")
	|> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
	|> group()
	|> limit(n: %d, offset: %d)`,
		escapeFlux(bucket), escapeFlux(measurement), plusOne(limit), offset)
}

// readingFromRecord drops Flux bookkeeping columns.
func readingFromRecord(values map[string]interface{}, t time.Time) models.SensorReading {
	reading := make(models.SensorReading, len(values))
	for k, v := range values {
		if strings.HasPrefix(k, "_") || k == "result" || k == "table" {
			continue
		}
		reading[k] = v
	}
	reading[SortKey] = t.Unix()
	return reading
}

func paginate(items []models.SensorReading, limit, offset int) models.Page {
	if len(items) <= limit {
		return models.Page{Items: items}
	}
	return models.Page{
		Items:            items[:limit],
		LastEvaluatedKey: map[string]interface{}{"offset": int(saturatingAdd(int64(offset), int64(limit)))},
	}
}

func offsetFrom(startKey map[string]interface{}) (int, error) {
	if len(startKey) == 0 {
		return 0, nil
	}
	switch v := startKey["offset"].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil && n >= 0 && n <= math.MaxInt {
			return int(n), nil
		}
	case float64:
		if v >= 0 && v == float64(int(v)) {
			return int(v), nil
		}
	case int:
		if v >= 0 {
			return v, nil
		}
	}
	return 0, models.NewParameterError("start_key", fmt.Errorf("expected a non-negative integer offset, got %v", startKey["offset"]))
}

// Flux times are int64 nanoseconds.
const maxFluxUnix = math.MaxInt64 / int64(time.Second)

func fluxTime(unix int64) string {
	unix = max(-maxFluxUnix, min(unix, maxFluxUnix))
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}

// plusOne is the row count fetched for a page: one extra row marks truncation.
func plusOne(limit int) int {
	return int(saturatingAdd(int64(limit), 1))
}

func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

var fluxEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `${`, `\${`)

func escapeFlux(s string) string {
	return fluxEscaper.Replace(s)
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"SmartSensor.dynamoDB/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueryFluxWithRange(t *testing.T) {
	flux := buildQueryFlux("SmartSensorData", "sensor_data", models.RangeQuery{
		PartitionKey: "sensor1",
		Range:        &models.TimeRange{Start: 100, End: 200},
		Limit:        10,
		Descending:   true,
	}, 0)

	assert.Contains(t, flux, `from(bucket: "SmartSensorData")`)
	assert.Contains(t, flux, "range(start: 1970-01-01T00:01:40Z, stop: 1970-01-01T00:03:21Z)")
	assert.Contains(t, flux, `r["ID"] == "sensor1"`)
	assert.Contains(t, flux, `sort(columns: ["_time"], desc: true)`)
	assert.Contains(t, flux, "limit(n: 11, offset: 0)")
}

func TestBuildQueryFluxWithoutRange(t *testing.T) {
	flux := buildQueryFlux("b", "m", models.RangeQuery{PartitionKey: "s", Limit: 100, Descending: true}, 200)

	assert.Contains(t, flux, "range(start: 0, stop: now())")
	assert.Contains(t, flux, "limit(n: 101, offset: 200)")
}

func TestBuildScanFluxHasNoKeyFilterOrSort(t *testing.T) {
	flux := buildScanFlux("b", "m", 100, 0)

	assert.NotContains(t, flux, `r["ID"]`)
	assert.NotContains(t, flux, "sort(")
	assert.Contains(t, flux, "limit(n: 101, offset: 0)")
}

func TestEscapeFlux(t *testing.T) {
	assert.Equal(t, `a\"b\\c\${d}`, escapeFlux(`a"b\c${d}`))
}

func TestReadingFromRecord(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	reading := readingFromRecord(map[string]interface{}{
		"_time":        ts,
		"_start":       ts,
		"_measurement": "sensor_data",
		"result":       "_result",
		"table":        0,
		"ID":           "sensor1",
		"temperature":  21.5,
	}, ts)

	assert.Equal(t, models.SensorReading{
		"ID":          "sensor1",
		"temperature": 21.5,
		"timestamp":   int64(1700000000),
	}, reading)
}

func TestPaginate(t *testing.T) {
	items := []models.SensorReading{{"n": 1}, {"n": 2}, {"n": 3}}

	page := paginate(items, 2, 4)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, map[string]interface{}{"offset": 6}, page.LastEvaluatedKey)

	page = paginate(items, 3, 0)
	assert.Len(t, page.Items, 3)
	assert.Nil(t, page.LastEvaluatedKey)
}

func TestOffsetFrom(t *testing.T) {
	off, err := offsetFrom(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, off)

	off, err = offsetFrom(map[string]interface{}{"offset": float64(300)})
	require.NoError(t, err)
	assert.Equal(t, 300, off)

	_, err = offsetFrom(map[string]interface{}{"ID": "sensor1"})
	require.Error(t, err)
	assert.Equal(t, models.ErrorKindParameter, models.KindOf(err))
}

func TestIsSystemBucket(t *testing.T) {
	assert.True(t, isSystemBucket("_monitoring"))
	assert.True(t, isSystemBucket("_tasks"))
	assert.False(t, isSystemBucket("SmartSensorData"))
}

const readingsCSV = `#datatype,string,long,dateTime:RFC3339,string,string,double
#group,false,false,false,true,true,false
#default,_result,,,,,
,result,table,_time,_measurement,ID,temperature
,,0,2023-11-14T22:13:30Z,sensor_data,sensor1,23.5
,,0,2023-11-14T22:13:25Z,sensor_data,sensor1,22.5
,,0,2023-11-14T22:13:20Z,sensor_data,sensor1,21.5

`

// fakeInflux answers the InfluxDB v2 endpoints the repository calls.
type fakeInflux struct {
	mu      sync.Mutex
	queries []string
	csv     string
	status  int
	buckets []string
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/health":
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name":"influxdb","message":"ready for queries and writes","status":"pass","checks":[]}`)
	case "/api/v2/buckets":
		w.Header().Set("Content-Type", "application/json")
		var buckets []map[string]interface{}
		for _, name := range f.buckets {
			if name == r.URL.Query().Get("name") {
				buckets = append(buckets, map[string]interface{}{"id": "b1", "name": name, "orgID": "o1", "retentionRules": []interface{}{}})
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"buckets": buckets})
	case "/api/v2/query":
		var body struct {
			Query string `json:"query"`
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		f.mu.Lock()
		f.queries = append(f.queries, body.Query)
		f.mu.Unlock()

		if f.status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			fmt.Fprint(w, `{"code":"invalid","message":"compilation failed: error at @1:1-1:5"}`)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		fmt.Fprint(w, f.csv)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeInflux) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func newInfluxRepository(t *testing.T, fake *fakeInflux) *InfluxDBRepository {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	repo := NewInfluxDBRepository(srv.URL, "token", "org", "SmartSensorData", "sensor_data")
	t.Cleanup(repo.Close)
	return repo
}

func TestInfluxQueryDecodesRecords(t *testing.T) {
	fake := &fakeInflux{csv: readingsCSV}
	repo := newInfluxRepository(t, fake)

	page, err := repo.Query(context.Background(), models.RangeQuery{PartitionKey: "sensor1", Limit: 5, Descending: true})
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	assert.Nil(t, page.LastEvaluatedKey)
	assert.Equal(t, models.SensorReading{
		"ID":          "sensor1",
		"temperature": 23.5,
		"timestamp":   int64(1700000010),
	}, page.Items[0])

	require.Equal(t, 1, fake.queryCount())
	assert.Contains(t, fake.queries[0], `r["ID"] == "sensor1"`)
	assert.Contains(t, fake.queries[0], "limit(n: 6, offset: 0)")
}

func TestInfluxQueryTruncatesToOffsetToken(t *testing.T) {
	fake := &fakeInflux{csv: readingsCSV}
	repo := newInfluxRepository(t, fake)

	page, err := repo.Query(context.Background(), models.RangeQuery{
		PartitionKey: "sensor1",
		Limit:        2,
		Descending:   true,
		StartKey:     map[string]interface{}{"offset": json.Number("4")},
	})
	require.NoError(t, err)

	assert.Len(t, page.Items, 2)
	assert.Equal(t, map[string]interface{}{"offset": 6}, page.LastEvaluatedKey)
	assert.Contains(t, fake.queries[0], "limit(n: 3, offset: 4)")
}

func TestInfluxScanZeroLimitSkipsStore(t *testing.T) {
	fake := &fakeInflux{csv: readingsCSV}
	repo := newInfluxRepository(t, fake)

	page, err := repo.Scan(context.Background(), models.ScanRequest{Limit: 0})
	require.NoError(t, err)

	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, fake.queryCount())
}

func TestInfluxScanHugeLimit(t *testing.T) {
	fake := &fakeInflux{csv: ""}
	repo := newInfluxRepository(t, fake)

	page, err := repo.Scan(context.Background(), models.ScanRequest{Limit: 1 << 40})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = repo.Scan(context.Background(), models.ScanRequest{Limit: math.MaxInt})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	require.Equal(t, 2, fake.queryCount())
	assert.Contains(t, fake.queries[0], fmt.Sprintf("limit(n: %d, offset: 0)", 1<<40+1))
	assert.Contains(t, fake.queries[1], fmt.Sprintf("limit(n: %d, offset: 0)", math.MaxInt))
}

func TestInfluxQueryErrorIsStoreError(t *testing.T) {
	fake := &fakeInflux{status: http.StatusBadRequest}
	repo := newInfluxRepository(t, fake)

	_, err := repo.Query(context.Background(), models.RangeQuery{PartitionKey: "sensor1", Limit: 10})
	require.Error(t, err)
	assert.Equal(t, models.ErrorKindStore, models.KindOf(err))
	assert.True(t, strings.HasPrefix(err.Error(), "query: error querying InfluxDB"))
}

func TestInfluxInvalidOffsetIsParameterError(t *testing.T) {
	fake := &fakeInflux{csv: readingsCSV}
	repo := newInfluxRepository(t, fake)

	_, err := repo.Scan(context.Background(), models.ScanRequest{
		Limit:    10,
		StartKey: map[string]interface{}{"offset": json.Number("-1")},
	})
	require.Error(t, err)
	assert.Equal(t, models.ErrorKindParameter, models.KindOf(err))
	assert.Zero(t, fake.queryCount())
}

func TestInfluxPingAndCheckBucket(t *testing.T) {
	fake := &fakeInflux{buckets: []string{"SmartSensorData"}}
	repo := newInfluxRepository(t, fake)

	require.NoError(t, repo.Ping(context.Background()))
	require.NoError(t, repo.CheckBucket(context.Background()))

	fake.buckets = nil
	assert.Error(t, repo.CheckBucket(context.Background()))
}

func TestBuildQueryFluxClampsRangeBounds(t *testing.T) {
	flux := buildQueryFlux("b", "m", models.RangeQuery{
		PartitionKey: "s",
		Range:        &models.TimeRange{Start: math.MinInt64, End: math.MaxInt64},
		Limit:        1,
	}, 0)

	assert.Contains(t, flux, "range(start: 1677-09-21T00:12:44Z, stop: 2262-04-11T23:47:16Z)")
}

func TestSaturatingAdd(t *testing.T) {
	assert.Equal(t, int64(3), saturatingAdd(1, 2))
	assert.Equal(t, int64(math.MaxInt64), saturatingAdd(math.MaxInt64, 1))
	assert.Equal(t, math.MaxInt, plusOne(math.MaxInt))
}

func TestOffsetFromJSONNumber(t *testing.T) {
	off, err := offsetFrom(map[string]interface{}{"offset": json.Number("1200")})
	require.NoError(t, err)
	assert.Equal(t, 1200, off)

	_, err = offsetFrom(map[string]interface{}{"offset": json.Number("1.5")})
	assert.Error(t, err)
}

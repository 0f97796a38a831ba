package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendInfluxDB = "influxdb"
)

// Config holds the application's configuration.
type Config struct {
	TableName           string
	AllowedOrigin       string
	MaxLimit            int
	RejectInvalidParams bool
	StoreBackend        string

	AWSRegion        string
	DynamoDBEndpoint string

	InfluxDBURL         string
	InfluxDBToken       string
	InfluxDBOrg         string
	InfluxDBBucket      string
	InfluxDBMeasurement string

	Port     string
	LogLevel string
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (Config, error) {
	//load env variables
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on system environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	// GetInt and GetBool turn typos into zero values, and MAX_LIMIT=0 disables the cap
	maxLimit, err := cast.ToIntE(strings.TrimSpace(v.GetString("MAX_LIMIT")))
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAX_LIMIT %q: %w", v.GetString("MAX_LIMIT"), err)
	}
	rejectInvalid, err := cast.ToBoolE(strings.TrimSpace(v.GetString("REJECT_INVALID_PARAMS")))
	if err != nil {
		return Config{}, fmt.Errorf("invalid REJECT_INVALID_PARAMS %q: %w", v.GetString("REJECT_INVALID_PARAMS"), err)
	}

	cfg := Config{
		TableName:           v.GetString("TABLE_NAME"),
		AllowedOrigin:       v.GetString("ALLOWED_ORIGIN"),
		MaxLimit:            maxLimit,
		RejectInvalidParams: rejectInvalid,
		StoreBackend:        strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),
		AWSRegion:           v.GetString("AWS_REGION"),
		DynamoDBEndpoint:    v.GetString("DYNAMODB_ENDPOINT"),
		InfluxDBURL:         v.GetString("INFLUXDB_URL"),
		InfluxDBToken:       v.GetString("INFLUXDB_TOKEN"),
		InfluxDBOrg:         v.GetString("INFLUXDB_ORG"),
		InfluxDBBucket:      v.GetString("INFLUXDB_BUCKET"),
		InfluxDBMeasurement: v.GetString("INFLUXDB_MEASUREMENT"),
		Port:                v.GetString("PORT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
	}
	if cfg.InfluxDBBucket == "" {
		cfg.InfluxDBBucket = cfg.TableName
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("TABLE_NAME", "SmartSensorData")
	v.SetDefault("ALLOWED_ORIGIN", "*") // set to the website frontend domain in production
	v.SetDefault("MAX_LIMIT", 1000)
	v.SetDefault("REJECT_INVALID_PARAMS", false)
	v.SetDefault("STORE_BACKEND", BackendDynamoDB)
	v.SetDefault("INFLUXDB_MEASUREMENT", "sensor_data")
	v.SetDefault("PORT", "8000")
	v.SetDefault("LOG_LEVEL", "info")
}

func validate(cfg Config) error {
	if cfg.TableName == "" {
		return fmt.Errorf("TABLE_NAME must not be empty")
	}
	if cfg.MaxLimit < 0 {
		return fmt.Errorf("MAX_LIMIT must be >= 0, got %d", cfg.MaxLimit)
	}
	switch cfg.StoreBackend {
	case BackendDynamoDB:
	case BackendInfluxDB:
		if cfg.InfluxDBURL == "" || cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
			return fmt.Errorf("InfluxDB configuration is incomplete. Please set INFLUXDB_URL, INFLUXDB_TOKEN, and INFLUXDB_ORG environment variables")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return nil
}

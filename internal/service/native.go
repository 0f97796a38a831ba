package service

import (
	"encoding/json"
	"fmt"

	"SmartSensor.dynamoDB/internal/models"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// ToNative converts every attributevalue.Number in v, at any depth, to a
// float64. Lists and maps are copied with the same shape and keys; every
// other value is returned unchanged.
func ToNative(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case attributevalue.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", string(t), err)
		}
		return f, nil
	case []attributevalue.Number:
		out := make([]float64, len(t))
		for i, n := range t {
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("number %q: %w", string(n), err)
			}
			out[i] = f
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			conv, err := ToNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case map[string]interface{}:
		return toNativeMap(t)
	case models.SensorReading:
		m, err := toNativeMap(t)
		if err != nil {
			return nil, err
		}
		return models.SensorReading(m), nil
	default:
		return v, nil
	}
}

func toNativeMap(m map[string]interface{}) (map[string]interface{}, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]interface{}, len(m))
	for k, e := range m {
		conv, err := ToNative(e)
		if err != nil {
			return nil, err
		}
		out[k] = conv
	}
	return out, nil
}

// keyToJSON keeps key numbers exact so the token survives a round trip
// through start_key.
func keyToJSON(key map[string]interface{}) (map[string]interface{}, error) {
	if key == nil {
		return nil, nil
	}
	out := make(map[string]interface{}, len(key))
	for k, e := range key {
		if n, ok := e.(attributevalue.Number); ok {
			out[k] = json.Number(n)
			continue
		}
		conv, err := ToNative(e)
		if err != nil {
			return nil, err
		}
		out[k] = conv
	}
	return out, nil
}

// toNativeReadings never returns a nil slice so the body always has "items": [].
func toNativeReadings(items []models.SensorReading) ([]models.SensorReading, error) {
	out := make([]models.SensorReading, 0, len(items))
	for _, item := range items {
		m, err := toNativeMap(item)
		if err != nil {
			return nil, err
		}
		out = append(out, models.SensorReading(m))
	}
	return out, nil
}

package models

// SensorReading is one stored record: the ID partition key, the timestamp
// sort key and whatever attributes the device reported.
type SensorReading map[string]interface{}

// ID returns the partition key value, or "" if the item has none.
func (r SensorReading) ID() string {
	id, _ := r["ID"].(string)
	return id
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"SmartSensor.dynamoDB/pkg/client"
	"github.com/spf13/pflag"
)

func main() {
	endpoint := pflag.String("url", "http://localhost:8000/readings", "readings endpoint URL")
	sensorID := pflag.String("id", "", "sensor ID (partition key)")
	limit := pflag.Int("limit", -1, "page size; negative lets the server decide")
	startTS := pflag.Int64("start-ts", 0, "range start, unix seconds")
	endTS := pflag.Int64("end-ts", 0, "range end, unix seconds")
	pages := pflag.Int("pages", 1, "pages to follow; 0 reads everything")
	timeout := pflag.Duration("timeout", 10*time.Second, "per-request timeout")
	pflag.Parse()

	params := client.Params{SensorID: *sensorID}
	if *limit >= 0 {
		params.Limit = limit
	}
	if pflag.CommandLine.Changed("start-ts") {
		params.StartTS = startTS
	}
	if pflag.CommandLine.Changed("end-ts") {
		params.EndTS = endTS
	}

	items, err := client.New(*endpoint, *timeout).FetchAll(context.Background(), params, *pages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sensorctl: %v\n", err)
		os.Exit(1)
	}
	if items == nil {
		items = []map[string]interface{}{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		fmt.Fprintf(os.Stderr, "sensorctl: %v\n", err)
		os.Exit(1)
	}
}

// Package client reads sensor readings from the query API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Params are the query-string parameters of one page request.
// A nil Limit lets the server apply its default.
type Params struct {
	SensorID string
	Limit    *int
	StartTS  *int64
	EndTS    *int64
	StartKey map[string]interface{}
}

// Page is one decoded response body. Numbers decode as json.Number so
// LastEvaluatedKey can be sent back unchanged.
type Page struct {
	Items            []map[string]interface{} `json:"items"`
	Count            int                      `json:"count"`
	LastEvaluatedKey map[string]interface{}   `json:"lastEvaluatedKey"`
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Detail     string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Message, e.Detail)
}

// Client calls a readings endpoint, e.g. https://api.example.com/prod/readings.
type Client struct {
	http     *resty.Client
	endpoint string
}

// New creates a Client for the given endpoint URL.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetJSONUnmarshaler(decodeUseNumber),
		endpoint: endpoint,
	}
}

// FetchPage requests a single page.
func (c *Client) FetchPage(ctx context.Context, p Params) (*Page, error) {
	query, err := p.queryParams()
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&Page{}).
		SetError(&APIError{}).
		Get(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("error requesting readings: %w", err)
	}

	if resp.IsError() {
		apiErr, ok := resp.Error().(*APIError)
		if !ok || apiErr.Message == "" {
			apiErr = &APIError{Message: resp.Status(), Detail: string(resp.Body())}
		}
		apiErr.StatusCode = resp.StatusCode()
		return nil, apiErr
	}

	page, ok := resp.Result().(*Page)
	if !ok {
		return nil, fmt.Errorf("unexpected response body: %s", resp.Body())
	}
	return page, nil
}

// FetchAll follows lastEvaluatedKey until the result set is exhausted or
// maxPages pages were read (0 means no page limit).
func (c *Client) FetchAll(ctx context.Context, p Params, maxPages int) ([]map[string]interface{}, error) {
	var items []map[string]interface{}
	for pages := 0; maxPages == 0 || pages < maxPages; pages++ {
		page, err := c.FetchPage(ctx, p)
		if err != nil {
			return items, err
		}
		items = append(items, page.Items...)
		if page.LastEvaluatedKey == nil {
			break
		}
		p.StartKey = page.LastEvaluatedKey
	}
	return items, nil
}

func (p Params) queryParams() (map[string]string, error) {
	query := make(map[string]string)
	if p.SensorID != "" {
		query["id"] = p.SensorID
	}
	if p.Limit != nil {
		query["limit"] = strconv.Itoa(*p.Limit)
	}
	if p.StartTS != nil {
		query["start_ts"] = strconv.FormatInt(*p.StartTS, 10)
	}
	if p.EndTS != nil {
		query["end_ts"] = strconv.FormatInt(*p.EndTS, 10)
	}
	if len(p.StartKey) > 0 {
		key, err := json.Marshal(p.StartKey)
		if err != nil {
			return nil, fmt.Errorf("error encoding start key: %w", err)
		}
		query["start_key"] = string(key)
	}
	return query, nil
}

func decodeUseNumber(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

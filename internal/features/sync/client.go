package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/config"
)

// ReportsClient pulls rows from the external reporting endpoints.
type ReportsClient interface {
	FetchRows(ctx context.Context, syncType common_models.SyncType, storeName string, from, to time.Time) ([]map[string]interface{}, error)
	FetchStores(ctx context.Context) ([]map[string]interface{}, error)
}

type HTTPReportsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewReportsClient(cfg *config.Config) ReportsClient {
	return &HTTPReportsClient{
		baseURL: cfg.ReportsBaseURL,
		apiKey:  cfg.ReportsAPIKey,
		client:  &http.Client{Timeout: cfg.ReportsTimeout},
	}
}

var reportPaths = map[common_models.SyncType]string{
	common_models.SyncTypeBooking: "/reports/booking",
	common_models.SyncTypeRentOut: "/reports/rentout",
	common_models.SyncTypeReturn:  "/reports/return",
}

// FetchRows requests one store's report rows for the date window.
func (c *HTTPReportsClient) FetchRows(ctx context.Context, syncType common_models.SyncType, storeName string, from, to time.Time) ([]map[string]interface{}, error) {
	path, ok := reportPaths[syncType]
	if !ok {
		return nil, fmt.Errorf("no report endpoint for channel %q", syncType)
	}

	params := url.Values{}
	params.Set("store", storeName)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	return c.get(ctx, path, params)
}

// FetchStores pulls the upstream store directory.
func (c *HTTPReportsClient) FetchStores(ctx context.Context) ([]map[string]interface{}, error) {
	return c.get(ctx, "/reports/stores", url.Values{})
}

func (c *HTTPReportsClient) get(ctx context.Context, path string, params url.Values) ([]map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return DecodeEnvelope(body)
}

// DecodeEnvelope extracts the payload array from an upstream response. The
// reporting endpoints are not consistent about wrapping: the array may be
// bare, or nested under "data", "dataSet.data" or "result".
func DecodeEnvelope(body []byte) ([]map[string]interface{}, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unparseable upstream payload: %w", err)
	}

	if rows, ok := toRows(raw); ok {
		return rows, nil
	}

	envelope, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unrecognized upstream envelope shape")
	}

	for _, candidate := range []interface{}{
		envelope["data"],
		nested(envelope, "dataSet", "data"),
		envelope["result"],
	} {
		if rows, ok := toRows(candidate); ok {
			return rows, nil
		}
	}

	return nil, fmt.Errorf("unrecognized upstream envelope shape")
}

func nested(m map[string]interface{}, keys ...string) interface{} {
	var cur interface{} = m
	for _, k := range keys {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = obj[k]
	}
	return cur
}

func toRows(v interface{}) ([]map[string]interface{}, bool) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, false
	}

	rows := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		row, ok := item.(map[string]interface{})
		if !ok {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, true
}

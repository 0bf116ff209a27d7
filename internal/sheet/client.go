package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Payload carries the two raw row streams the spreadsheet endpoint returns.
// Rows keep their loose cell values (string, number, or empty); header
// casing is normalized to lower case here.
type Payload struct {
	Weight []map[string]any
	KBJU   []map[string]any
}

func (p Payload) Empty() bool {
	return len(p.Weight) == 0 && len(p.KBJU) == 0
}

// RemoteError is returned when the endpoint itself reports failure
// (success=false in the payload).
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

type Client struct {
	HTTPClient *http.Client
}

// Fetch performs the single GET against the configured endpoint and decodes
// the response. The raw body is returned alongside the payload so callers
// can cache it.
func (c *Client) Fetch(ctx context.Context, endpoint string) (Payload, []byte, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(endpoint), nil)
	if err != nil {
		return Payload{}, nil, fmt.Errorf("create sheet request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Payload{}, nil, fmt.Errorf("execute sheet request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Payload{}, nil, fmt.Errorf("read sheet response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Payload{}, body, fmt.Errorf("sheet request failed with status %d", resp.StatusCode)
	}

	payload, err := ParsePayload(body)
	if err != nil {
		return Payload{}, body, err
	}
	return payload, body, nil
}

// ParsePayload decodes a response body. It is shared with the snapshot
// cache so an offline rerun goes through the exact same path.
func ParsePayload(body []byte) (Payload, error) {
	var parsed sheetResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Payload{}, fmt.Errorf("decode sheet response: %w", err)
	}
	if !parsed.Success {
		msg := strings.TrimSpace(parsed.Error)
		if msg == "" {
			msg = "the sheet endpoint reported an error"
		}
		return Payload{}, &RemoteError{Message: msg}
	}
	return Payload{
		Weight: lowerKeys(parsed.Weight),
		KBJU:   lowerKeys(parsed.KBJU),
	}, nil
}

func lowerKeys(rows []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		norm := make(map[string]any, len(row))
		for k, v := range row {
			norm[strings.ToLower(strings.TrimSpace(k))] = v
		}
		out = append(out, norm)
	}
	return out
}

type sheetResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error"`
	Weight  []map[string]any `json:"weight"`
	KBJU    []map[string]any `json:"kbju"`
}

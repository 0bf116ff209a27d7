package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchParsesSheetResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "success": true,
  "weight": [
    {"Date": "2026-01-07", "Weight": "80,1"},
    {"date": "2026-01-08", "weight": 79.5}
  ],
  "kbju": [
    {"DATE": "07.01.2026", "Calories": 1750, "Proteins": "150", "Fats": "-", "Carbs": ""}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{HTTPClient: ts.Client()}
	payload, raw, err := c.Fetch(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected raw body for caching")
	}
	if len(payload.Weight) != 2 || len(payload.KBJU) != 1 {
		t.Fatalf("unexpected stream sizes: %d weight, %d kbju", len(payload.Weight), len(payload.KBJU))
	}
	if payload.Weight[0]["date"] != "2026-01-07" {
		t.Fatalf("expected lower-cased headers, got %+v", payload.Weight[0])
	}
	if payload.KBJU[0]["fats"] != "-" {
		t.Fatalf("cell values must pass through untouched, got %+v", payload.KBJU[0])
	}
	if payload.Empty() {
		t.Fatalf("payload with rows must not report empty")
	}
}

func TestFetchSurfacesRemoteError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error": "sheet is locked"}`))
	}))
	defer ts.Close()

	c := &Client{HTTPClient: ts.Client()}
	_, _, err := c.Fetch(context.Background(), ts.URL)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Message != "sheet is locked" {
		t.Fatalf("expected verbatim message, got %q", remote.Message)
	}
}

func TestFetchRemoteErrorFallbackMessage(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false}`))
	}))
	defer ts.Close()

	c := &Client{HTTPClient: ts.Client()}
	_, _, err := c.Fetch(context.Background(), ts.URL)
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if remote.Message == "" {
		t.Fatalf("expected a generic fallback message")
	}
}

func TestFetchFailsOnHTTPStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{HTTPClient: ts.Client()}
	_, _, err := c.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatalf("expected error for 502")
	}
}

func TestParsePayloadEmptyStreams(t *testing.T) {
	t.Parallel()

	payload, err := ParsePayload([]byte(`{"success": true, "weight": [], "kbju": []}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !payload.Empty() {
		t.Fatalf("expected empty payload")
	}
}

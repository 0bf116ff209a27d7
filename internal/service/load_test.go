package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
	"github.com/aaallexandr/kbju-dashboard/internal/service"
	"github.com/aaallexandr/kbju-dashboard/internal/sheet"
)

const sheetBody = `{
  "success": true,
  "weight": [
    {"Date": "2026-01-05", "Weight": "80"},
    {"Date": "2026-01-06", "Weight": "-"}
  ],
  "kbju": [
    {"Date": "2026-01-05", "Calories": "1750", "Proteins": 150, "Fats": 60, "Carbs": 180},
    {"Date": "2026-01-06", "Calories": "oops"}
  ]
}`

func TestLoadFullCycle(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(sheetBody))
	}))
	defer ts.Close()

	if err := service.SetSheetURL(db, ts.URL); err != nil {
		t.Fatalf("set url: %v", err)
	}

	ds, err := service.Load(context.Background(), db, &sheet.Client{HTTPClient: ts.Client()})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// Bad rows degrade by exclusion, they never fail the load.
	if len(ds.Weight) != 1 || len(ds.Nutrition) != 1 {
		t.Fatalf("expected 1 usable record per stream, got %d/%d", len(ds.Weight), len(ds.Nutrition))
	}
	if ds.Nutrition[0].Category != model.ZoneHealthyLoss {
		t.Fatalf("expected healthy_loss for 1750 under default zones, got %s", ds.Nutrition[0].Category)
	}

	// The raw body is cached; an offline rerun needs no network.
	cached, err := service.LoadCached(db)
	if err != nil {
		t.Fatalf("load cached: %v", err)
	}
	if len(cached.Weight) != 1 || len(cached.Nutrition) != 1 {
		t.Fatalf("cached rerun diverged: %d/%d", len(cached.Weight), len(cached.Nutrition))
	}
	if hits.Load() != 1 {
		t.Fatalf("offline rerun must not refetch, got %d hits", hits.Load())
	}
}

func TestLoadCachedAppliesCurrentTargets(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sheetBody))
	}))
	defer ts.Close()

	if err := service.SetSheetURL(db, ts.URL); err != nil {
		t.Fatalf("set url: %v", err)
	}
	if _, err := service.Load(context.Background(), db, &sheet.Client{HTTPClient: ts.Client()}); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Tighten the zones so 1750 kcal now reads as surplus, then rerun from
	// the snapshot: reclassification happens because the pipeline reruns in
	// full, exactly like a fresh fetch of the same data.
	targets := service.DefaultTargets()
	targets.Zones = model.CalorieZones{
		UnhealthyDeficit: 900,
		FastLoss:         1100,
		HealthyLoss:      1300,
		SlowLoss:         1500,
		Maintenance:      1700,
	}
	if err := service.SaveTargets(db, targets); err != nil {
		t.Fatalf("save targets: %v", err)
	}

	cached, err := service.LoadCached(db)
	if err != nil {
		t.Fatalf("load cached: %v", err)
	}
	if cached.Nutrition[0].Category != model.ZoneSurplus {
		t.Fatalf("expected surplus after zone tightening, got %s", cached.Nutrition[0].Category)
	}
}

func TestLoadWithoutURL(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	_, err := service.Load(context.Background(), db, &sheet.Client{})
	if !errors.Is(err, service.ErrNoSheetURL) {
		t.Fatalf("expected ErrNoSheetURL, got %v", err)
	}
}

func TestLoadEmptyDataset(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "weight": [], "kbju": []}`))
	}))
	defer ts.Close()

	if err := service.SetSheetURL(db, ts.URL); err != nil {
		t.Fatalf("set url: %v", err)
	}
	_, err := service.Load(context.Background(), db, &sheet.Client{HTTPClient: ts.Client()})
	if !errors.Is(err, service.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestLoadCachedWithoutSnapshot(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	_, err := service.LoadCached(db)
	if !errors.Is(err, service.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

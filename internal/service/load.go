package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
	"github.com/aaallexandr/kbju-dashboard/internal/pipeline"
	"github.com/aaallexandr/kbju-dashboard/internal/sheet"
)

var (
	// ErrNoSheetURL means no endpoint is configured; the user must run
	// settings set-url before anything can load.
	ErrNoSheetURL = errors.New("no sheet url configured (run: kbju settings set-url <url>)")

	// ErrEmptyDataset is the distinct no-data condition: the fetch
	// succeeded but both row streams were empty.
	ErrEmptyDataset = errors.New("the sheet has no weight or nutrition rows yet")

	// ErrNoSnapshot means --offline was requested before any successful
	// fetch was cached.
	ErrNoSnapshot = errors.New("no cached fetch available (run: kbju fetch)")
)

// Dataset is one complete, immutable result of a load cycle. Every report
// is computed from a Dataset; nothing partial is ever published.
type Dataset struct {
	Weight    []model.WeightRecord
	Nutrition []model.NutritionRecord
	Targets   model.TargetConfiguration
	FetchedAt time.Time
}

// Load runs a full load cycle: read the configured URL and targets, fetch,
// normalize both streams, and cache the raw body for offline reruns. Bad
// individual rows are dropped during normalization; only transport-level
// and endpoint-level failures abort the cycle.
func Load(ctx context.Context, db *sql.DB, client *sheet.Client) (*Dataset, error) {
	url, ok, err := SheetURL(db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSheetURL
	}
	targets, err := LoadTargets(db)
	if err != nil {
		return nil, err
	}

	payload, raw, err := client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if payload.Empty() {
		return nil, ErrEmptyDataset
	}

	fetchedAt := time.Now().UTC()
	if err := SaveSnapshot(db, raw, fetchedAt); err != nil {
		return nil, err
	}
	return buildDataset(payload, targets, fetchedAt), nil
}

// LoadCached reruns the pipeline from the last cached fetch, against the
// current targets. Target edits therefore apply to a cached payload without
// a network round trip, matching a fresh fetch of identical data.
func LoadCached(db *sql.DB) (*Dataset, error) {
	raw, fetchedAt, ok, err := LoadSnapshot(db)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSnapshot
	}
	targets, err := LoadTargets(db)
	if err != nil {
		return nil, err
	}
	payload, err := sheet.ParsePayload(raw)
	if err != nil {
		return nil, err
	}
	if payload.Empty() {
		return nil, ErrEmptyDataset
	}
	return buildDataset(payload, targets, fetchedAt), nil
}

func buildDataset(payload sheet.Payload, targets model.TargetConfiguration, fetchedAt time.Time) *Dataset {
	return &Dataset{
		Weight:    pipeline.NormalizeWeight(payload.Weight, targets.HeightCm),
		Nutrition: pipeline.NormalizeNutrition(payload.KBJU, targets.Zones),
		Targets:   targets,
		FetchedAt: fetchedAt,
	}
}

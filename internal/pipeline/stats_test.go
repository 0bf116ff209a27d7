package pipeline_test

import (
	"testing"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
	"github.com/aaallexandr/kbju-dashboard/internal/pipeline"
)

func macroTarget(v int) *int { return &v }

func testTargets() model.TargetConfiguration {
	return model.TargetConfiguration{
		BMI:      21.5,
		Proteins: macroTarget(150),
		Fats:     macroTarget(70),
		Carbs:    macroTarget(220),
		Zones:    testZones,
		HeightCm: 170,
	}
}

func withMacros(rec model.NutritionRecord, proteins, fats, carbs *float64) model.NutritionRecord {
	rec.Proteins = proteins
	rec.Fats = fats
	rec.Carbs = carbs
	return rec
}

func grams(v float64) *float64 { return &v }

func TestMacroStatsEmptyInputIsZeroObject(t *testing.T) {
	t.Parallel()

	got := pipeline.ComputeMacroStats(nil, pipeline.MacroProteins, testTargets())
	want := pipeline.MacroStats{}
	if got != want {
		t.Fatalf("expected zero stats, got %+v", got)
	}

	// Records that lack the requested field count as empty input too.
	recs := []model.NutritionRecord{nutritionRec(day(2026, 1, 5), 1700)}
	if got := pipeline.ComputeMacroStats(recs, pipeline.MacroCarbs, testTargets()); got != want {
		t.Fatalf("expected zero stats for all-nil field, got %+v", got)
	}
}

func TestMacroStatsProteins(t *testing.T) {
	t.Parallel()

	recs := []model.NutritionRecord{
		withMacros(nutritionRec(day(2026, 1, 5), 1800), grams(160), nil, nil),
	}
	got := pipeline.ComputeMacroStats(recs, pipeline.MacroProteins, testTargets())
	if got.Avg != 160.0 {
		t.Fatalf("expected avg 160.0, got %v", got.Avg)
	}
	if got.Distribution != (pipeline.Distribution{Below: 0, Within: 0, Above: 1}) {
		t.Fatalf("unexpected distribution %+v", got.Distribution)
	}
	if got.Total != 1 || got.SuccessCount != 1 || got.SuccessRate != 100 {
		t.Fatalf("expected full success, got %+v", got)
	}
}

func TestMacroStatsDistributionAndRounding(t *testing.T) {
	t.Parallel()

	recs := []model.NutritionRecord{
		withMacros(nutritionRec(day(2026, 1, 5), 1800), grams(160), nil, nil),
		withMacros(nutritionRec(day(2026, 1, 6), 1700), grams(140), nil, nil),
		withMacros(nutritionRec(day(2026, 1, 7), 1750), grams(150), nil, nil),
	}
	got := pipeline.ComputeMacroStats(recs, pipeline.MacroProteins, testTargets())
	if got.Avg != 150.0 {
		t.Fatalf("expected avg 150.0, got %v", got.Avg)
	}
	if got.Distribution != (pipeline.Distribution{Below: 1, Within: 1, Above: 1}) {
		t.Fatalf("unexpected distribution %+v", got.Distribution)
	}
	// 160 and 150 meet the target; 2/3 rounds to 67.
	if got.SuccessCount != 2 || got.SuccessRate != 67 {
		t.Fatalf("expected 2 successes at 67%%, got %+v", got)
	}
}

func TestMacroStatsFatsSucceedAtOrBelowTarget(t *testing.T) {
	t.Parallel()

	recs := []model.NutritionRecord{
		withMacros(nutritionRec(day(2026, 1, 5), 1800), nil, grams(70), nil),
		withMacros(nutritionRec(day(2026, 1, 6), 1800), nil, grams(71), nil),
	}
	got := pipeline.ComputeMacroStats(recs, pipeline.MacroFats, testTargets())
	if got.SuccessCount != 1 || got.SuccessRate != 50 {
		t.Fatalf("expected only the at-target day to succeed, got %+v", got)
	}
}

func TestMacroStatsCarbsBandIsBoundaryInclusive(t *testing.T) {
	t.Parallel()

	// |242-220|/220 is exactly the 10% tolerance.
	recs := []model.NutritionRecord{
		withMacros(nutritionRec(day(2026, 1, 5), 1800), nil, nil, grams(242)),
		withMacros(nutritionRec(day(2026, 1, 6), 1800), nil, nil, grams(243)),
		withMacros(nutritionRec(day(2026, 1, 7), 1800), nil, nil, grams(198)),
		withMacros(nutritionRec(day(2026, 1, 8), 1800), nil, nil, grams(197)),
	}
	got := pipeline.ComputeMacroStats(recs, pipeline.MacroCarbs, testTargets())
	if got.SuccessCount != 2 {
		t.Fatalf("expected 242 and 198 to succeed, got %+v", got)
	}
	if got.SuccessRate != 50 {
		t.Fatalf("expected 50%%, got %d", got.SuccessRate)
	}
}

func TestMacroStatsWithoutTarget(t *testing.T) {
	t.Parallel()

	targets := testTargets()
	targets.Proteins = nil
	recs := []model.NutritionRecord{
		withMacros(nutritionRec(day(2026, 1, 5), 1800), grams(160), nil, nil),
		withMacros(nutritionRec(day(2026, 1, 6), 1800), grams(120), nil, nil),
	}
	got := pipeline.ComputeMacroStats(recs, pipeline.MacroProteins, targets)
	if got.Distribution != (pipeline.Distribution{Within: 2}) {
		t.Fatalf("expected everything within without a target, got %+v", got.Distribution)
	}
	if got.SuccessCount != 0 || got.SuccessRate != 0 {
		t.Fatalf("expected no successes without a target, got %+v", got)
	}
	if got.Avg != 140.0 {
		t.Fatalf("expected avg 140.0, got %v", got.Avg)
	}
}

func TestCategoryDistribution(t *testing.T) {
	t.Parallel()

	recs := []model.NutritionRecord{
		nutritionRec(day(2026, 1, 5), 1100), // unhealthy_deficit
		nutritionRec(day(2026, 1, 6), 1700), // healthy_loss
		nutritionRec(day(2026, 1, 7), 1750), // healthy_loss
		nutritionRec(day(2026, 1, 8), 2600), // surplus
	}
	dist := pipeline.CategoryDistribution(recs)
	if len(dist) != 3 {
		t.Fatalf("expected 3 zones present, got %d: %+v", len(dist), dist)
	}
	if dist[model.ZoneHealthyLoss] != 2 || dist[model.ZoneUnhealthyDeficit] != 1 || dist[model.ZoneSurplus] != 1 {
		t.Fatalf("unexpected tally %+v", dist)
	}
	if _, ok := dist[model.ZoneMaintenance]; ok {
		t.Fatalf("absent zones must not appear as keys")
	}
}

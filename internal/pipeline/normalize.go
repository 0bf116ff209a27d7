package pipeline

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
)

// Raw spreadsheet cells arrive as string, number, or nothing at all, with
// "-" used as an explicit empty marker. Header names are matched
// case-insensitively.

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2006-01-02T15:04:05Z07:00",
}

// ParseNumber reads a numeric cell. Empty string, nil, and the "-" sentinel
// count as absent. Decimal commas are accepted.
func ParseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" || s == "-" {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDate reads a date cell in any of the supported layouts and truncates
// it to a calendar day (midnight UTC).
func ParseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// Day truncates a timestamp to its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekKey returns the Sunday ending the Monday-started week containing d.
func WeekKey(d time.Time) time.Time {
	d = Day(d)
	back := (int(d.Weekday()) + 6) % 7
	monday := d.AddDate(0, 0, -back)
	return monday.AddDate(0, 0, 6)
}

func fieldValue(row map[string]any, name string) any {
	if v, ok := row[name]; ok {
		return v
	}
	for k, v := range row {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// NormalizeWeight converts raw weight rows into typed records. Rows without
// a parseable date or a positive weight are dropped, never emitted with
// nulled fields.
func NormalizeWeight(rows []map[string]any, heightCm float64) []model.WeightRecord {
	heightM := heightCm / 100
	out := make([]model.WeightRecord, 0, len(rows))
	for _, row := range rows {
		date, ok := ParseDate(fieldValue(row, "date"))
		if !ok {
			continue
		}
		weight, ok := ParseNumber(fieldValue(row, "weight"))
		if !ok || weight <= 0 {
			continue
		}
		out = append(out, model.WeightRecord{
			Date:    date,
			Weight:  weight,
			BMI:     round1(weight / (heightM * heightM)),
			WeekKey: WeekKey(date),
			Year:    date.Year(),
		})
	}
	return out
}

// NormalizeNutrition converts raw intake rows into typed records. Calories
// must parse positive; the macro fields stay nil when absent. The calorie
// zone is classified here, against the zones in effect at fetch time.
func NormalizeNutrition(rows []map[string]any, zones model.CalorieZones) []model.NutritionRecord {
	out := make([]model.NutritionRecord, 0, len(rows))
	for _, row := range rows {
		date, ok := ParseDate(fieldValue(row, "date"))
		if !ok {
			continue
		}
		calories, ok := ParseNumber(fieldValue(row, "calories"))
		if !ok || calories <= 0 {
			continue
		}
		rec := model.NutritionRecord{
			Date:       date,
			Calories:   calories,
			Category:   Classify(calories, zones),
			WeekKey:    WeekKey(date),
			MonthLabel: date.Format("January 2006"),
		}
		if v, ok := ParseNumber(fieldValue(row, "proteins")); ok {
			rec.Proteins = &v
		}
		if v, ok := ParseNumber(fieldValue(row, "fats")); ok {
			rec.Fats = &v
		}
		if v, ok := ParseNumber(fieldValue(row, "carbs")); ok {
			rec.Carbs = &v
		}
		out = append(out, rec)
	}
	return out
}

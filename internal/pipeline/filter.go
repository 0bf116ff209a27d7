package pipeline

import (
	"time"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
)

// Range filtering is inclusive on both ends; a nil bound leaves that side
// open. Only the calendar date matters.

func inRange(d time.Time, from, to *time.Time) bool {
	d = Day(d)
	if from != nil && d.Before(Day(*from)) {
		return false
	}
	if to != nil && d.After(Day(*to)) {
		return false
	}
	return true
}

func FilterWeight(recs []model.WeightRecord, from, to *time.Time) []model.WeightRecord {
	out := make([]model.WeightRecord, 0, len(recs))
	for _, r := range recs {
		if inRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return out
}

func FilterNutrition(recs []model.NutritionRecord, from, to *time.Time) []model.NutritionRecord {
	out := make([]model.NutritionRecord, 0, len(recs))
	for _, r := range recs {
		if inRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return out
}

// WeightDateRange reports the earliest and latest record dates. ok is false
// for an empty input.
func WeightDateRange(recs []model.WeightRecord) (min, max time.Time, ok bool) {
	for i, r := range recs {
		d := Day(r.Date)
		if i == 0 {
			min, max = d, d
			continue
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, len(recs) > 0
}

func NutritionDateRange(recs []model.NutritionRecord) (min, max time.Time, ok bool) {
	for i, r := range recs {
		d := Day(r.Date)
		if i == 0 {
			min, max = d, d
			continue
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, len(recs) > 0
}

package pipeline

import (
	"math"
	"sort"
	"time"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
)

type WeeklyAverage struct {
	Week        string             `json:"week"`
	AvgWeight   *float64           `json:"avg_weight,omitempty"`
	AvgBMI      *float64           `json:"avg_bmi,omitempty"`
	Incomplete  bool               `json:"incomplete"`
	AvgCalories *int               `json:"avg_calories,omitempty"`
	CalorieZone *model.CalorieZone `json:"calorie_zone,omitempty"`
}

type SeriesPoint struct {
	Week  string  `json:"week"`
	Value float64 `json:"value"`
}

type WeightField string

const (
	FieldWeight WeightField = "weight"
	FieldBMI    WeightField = "bmi"
)

const dayFormat = "2006-01-02"

// A week whose Monday has not arrived yet produces no row at all; a week
// whose Sunday has not arrived yet produces a row flagged incomplete.

func weekVisible(sunday, today time.Time) bool {
	monday := sunday.AddDate(0, 0, -6)
	return !monday.After(Day(today))
}

func weekIncomplete(sunday, today time.Time) bool {
	return sunday.After(Day(today))
}

// WeightWeekly rolls daily weight records up into per-week averages, keyed
// by the week's ending Sunday and sorted ascending. The nutrition stream is
// always consulted for the week's calorie context, so weight weeks carry
// average calories and a zone when intake data exists for that week.
func WeightWeekly(weight []model.WeightRecord, nutrition []model.NutritionRecord, zones model.CalorieZones, today time.Time) []WeeklyAverage {
	byWeek := make(map[time.Time][]model.WeightRecord)
	for _, r := range weight {
		byWeek[r.WeekKey] = append(byWeek[r.WeekKey], r)
	}

	out := make([]WeeklyAverage, 0, len(byWeek))
	for sunday, recs := range byWeek {
		if !weekVisible(sunday, today) {
			continue
		}
		var weightSum, bmiSum float64
		for _, r := range recs {
			weightSum += r.Weight
			bmiSum += r.BMI
		}
		n := float64(len(recs))
		avgWeight := round1(weightSum / n)
		avgBMI := round1(bmiSum / n)

		row := WeeklyAverage{
			Week:       sunday.Format(dayFormat),
			AvgWeight:  &avgWeight,
			AvgBMI:     &avgBMI,
			Incomplete: weekIncomplete(sunday, today),
		}
		row.AvgCalories, row.CalorieZone = weekCalorieSummary(sunday, nutrition, zones)
		out = append(out, row)
	}

	sortWeekly(out)
	return out
}

// NutritionWeekly rolls daily intake records up into per-week averages.
// Weight fields stay nil; the calorie summary comes from the same stream.
func NutritionWeekly(nutrition []model.NutritionRecord, zones model.CalorieZones, today time.Time) []WeeklyAverage {
	seen := make(map[time.Time]bool)
	weeks := make([]time.Time, 0)
	for _, r := range nutrition {
		if !seen[r.WeekKey] {
			seen[r.WeekKey] = true
			weeks = append(weeks, r.WeekKey)
		}
	}

	out := make([]WeeklyAverage, 0, len(weeks))
	for _, sunday := range weeks {
		if !weekVisible(sunday, today) {
			continue
		}
		row := WeeklyAverage{
			Week:       sunday.Format(dayFormat),
			Incomplete: weekIncomplete(sunday, today),
		}
		row.AvgCalories, row.CalorieZone = weekCalorieSummary(sunday, nutrition, zones)
		out = append(out, row)
	}

	sortWeekly(out)
	return out
}

func weekCalorieSummary(sunday time.Time, nutrition []model.NutritionRecord, zones model.CalorieZones) (*int, *model.CalorieZone) {
	var sum float64
	var count int
	for _, r := range nutrition {
		if r.WeekKey.Equal(sunday) {
			sum += r.Calories
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	avg := int(math.Round(sum / float64(count)))
	zone := Classify(float64(avg), zones)
	return &avg, &zone
}

func sortWeekly(rows []WeeklyAverage) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Week < rows[j].Week })
}

// WeightSeriesByWeek keeps a weekly chart stable while the visible range
// narrows: it emits only weeks that still have a visible member, but each
// week's value averages over the full (unfiltered) set's members.
func WeightSeriesByWeek(full, visible []model.WeightRecord, field WeightField) []SeriesPoint {
	visibleWeeks := make(map[time.Time]bool)
	for _, r := range visible {
		visibleWeeks[r.WeekKey] = true
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, r := range full {
		if !visibleWeeks[r.WeekKey] {
			continue
		}
		v := r.Weight
		if field == FieldBMI {
			v = r.BMI
		}
		sums[r.WeekKey] += v
		counts[r.WeekKey]++
	}

	out := make([]SeriesPoint, 0, len(sums))
	for sunday, sum := range sums {
		out = append(out, SeriesPoint{
			Week:  sunday.Format(dayFormat),
			Value: round1(sum / float64(counts[sunday])),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

// CalorieSeriesByWeek is the nutrition-stream counterpart of
// WeightSeriesByWeek.
func CalorieSeriesByWeek(full, visible []model.NutritionRecord) []SeriesPoint {
	visibleWeeks := make(map[time.Time]bool)
	for _, r := range visible {
		visibleWeeks[r.WeekKey] = true
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for _, r := range full {
		if !visibleWeeks[r.WeekKey] {
			continue
		}
		sums[r.WeekKey] += r.Calories
		counts[r.WeekKey]++
	}

	out := make([]SeriesPoint, 0, len(sums))
	for sunday, sum := range sums {
		out = append(out, SeriesPoint{
			Week:  sunday.Format(dayFormat),
			Value: round1(sum / float64(counts[sunday])),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

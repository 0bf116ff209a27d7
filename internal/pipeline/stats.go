package pipeline

import (
	"math"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
)

type Macro string

const (
	MacroProteins Macro = "proteins"
	MacroFats     Macro = "fats"
	MacroCarbs    Macro = "carbs"
)

type Distribution struct {
	Below  int `json:"below"`
	Within int `json:"within"`
	Above  int `json:"above"`
}

type MacroStats struct {
	Avg          float64      `json:"avg"`
	Distribution Distribution `json:"distribution"`
	Total        int          `json:"total"`
	SuccessCount int          `json:"success_count"`
	SuccessRate  int          `json:"success_rate"`
}

// carbsTolerance is the band either side of the carbs target that still
// counts as a successful day, boundary inclusive.
const carbsTolerance = 0.10

// ComputeMacroStats summarizes one macro field over a record set. Records
// without a value for the field are ignored; an empty result yields the
// all-zero stats object rather than an error.
//
// Success is macro-specific: proteins succeed at or above target, fats at or
// below, carbs within 10% of target either way. Without a configured target
// every day buckets as within and none succeed.
func ComputeMacroStats(recs []model.NutritionRecord, macro Macro, targets model.TargetConfiguration) MacroStats {
	values := make([]float64, 0, len(recs))
	for _, r := range recs {
		if v := macroValue(r, macro); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return MacroStats{}
	}

	stats := MacroStats{Total: len(values)}
	var sum float64
	for _, v := range values {
		sum += v
	}
	stats.Avg = round1(sum / float64(len(values)))

	target := targets.MacroTarget(string(macro))
	if target == nil {
		stats.Distribution.Within = len(values)
		return stats
	}

	t := float64(*target)
	for _, v := range values {
		switch {
		case v < t:
			stats.Distribution.Below++
		case v > t:
			stats.Distribution.Above++
		default:
			stats.Distribution.Within++
		}
		if macroSuccess(v, t, macro) {
			stats.SuccessCount++
		}
	}
	stats.SuccessRate = int(math.Round(float64(stats.SuccessCount) / float64(stats.Total) * 100))
	return stats
}

func macroValue(r model.NutritionRecord, macro Macro) *float64 {
	switch macro {
	case MacroProteins:
		return r.Proteins
	case MacroFats:
		return r.Fats
	case MacroCarbs:
		return r.Carbs
	default:
		return nil
	}
}

func macroSuccess(v, target float64, macro Macro) bool {
	switch macro {
	case MacroProteins:
		return v >= target
	case MacroFats:
		return v <= target
	case MacroCarbs:
		if target == 0 {
			return false
		}
		return math.Abs(v-target)/target <= carbsTolerance
	default:
		return false
	}
}

// CategoryDistribution tallies records per calorie zone. Zones with no
// records are simply absent from the map.
func CategoryDistribution(recs []model.NutritionRecord) map[model.CalorieZone]int {
	out := make(map[model.CalorieZone]int)
	for _, r := range recs {
		out[r.Category]++
	}
	return out
}

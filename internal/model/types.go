package model

import "time"

// CalorieZone classifies a day's intake against the configured boundaries.
type CalorieZone string

const (
	ZoneUnhealthyDeficit CalorieZone = "unhealthy_deficit"
	ZoneFastLoss         CalorieZone = "fast_loss"
	ZoneHealthyLoss      CalorieZone = "healthy_loss"
	ZoneSlowLoss         CalorieZone = "slow_loss"
	ZoneMaintenance      CalorieZone = "maintenance"
	ZoneSurplus          CalorieZone = "surplus"
)

var zoneOrder = []CalorieZone{
	ZoneUnhealthyDeficit,
	ZoneFastLoss,
	ZoneHealthyLoss,
	ZoneSlowLoss,
	ZoneMaintenance,
	ZoneSurplus,
}

// Zones returns all calorie zones in ascending boundary order.
func Zones() []CalorieZone {
	out := make([]CalorieZone, len(zoneOrder))
	copy(out, zoneOrder)
	return out
}

// Index returns the zone's position in ascending boundary order, or -1.
func (z CalorieZone) Index() int {
	for i, v := range zoneOrder {
		if v == z {
			return i
		}
	}
	return -1
}

// SurplusBound is the fixed, unreachable upper boundary of the surplus zone.
// It is not user-editable.
const SurplusBound = 100000

// CalorieZones holds the five editable boundaries, strictly ascending.
// A day with calories below UnhealthyDeficit falls into the unhealthy-deficit
// zone; a day at or above Maintenance falls into surplus.
type CalorieZones struct {
	UnhealthyDeficit int
	FastLoss         int
	HealthyLoss      int
	SlowLoss         int
	Maintenance      int
}

// TargetConfiguration is the shared set of user-editable thresholds the
// pipeline reads. It is replaced wholesale on settings save; classification
// baked into records does not follow later edits until the next fetch.
type TargetConfiguration struct {
	BMI      float64
	Proteins *int
	Fats     *int
	Carbs    *int
	Zones    CalorieZones
	HeightCm float64
}

// MacroTarget returns the configured target for one of the three macro
// fields, or nil when it is not set.
func (t TargetConfiguration) MacroTarget(macro string) *int {
	switch macro {
	case "proteins":
		return t.Proteins
	case "fats":
		return t.Fats
	case "carbs":
		return t.Carbs
	default:
		return nil
	}
}

// WeightRecord is one usable daily weight row. Rows whose weight fails to
// parse to a positive finite value never become records, so Weight and BMI
// are always present and positive here.
type WeightRecord struct {
	Date    time.Time
	Weight  float64
	BMI     float64
	WeekKey time.Time
	Year    int
}

// NutritionRecord is one usable daily intake row. Calories is always
// positive; the macro fields are nil when the source cell was empty.
// Category is fixed at normalization time.
type NutritionRecord struct {
	Date       time.Time
	Calories   float64
	Proteins   *float64
	Fats       *float64
	Carbs      *float64
	Category   CalorieZone
	WeekKey    time.Time
	MonthLabel string
}

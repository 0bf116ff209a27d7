package pipeline

import "github.com/aaallexandr/kbju-dashboard/internal/model"

// Classify buckets a calorie amount into its zone. Every boundary uses a
// strict less-than, so a day landing exactly on a boundary falls into the
// next higher zone.
func Classify(calories float64, z model.CalorieZones) model.CalorieZone {
	switch {
	case calories < float64(z.UnhealthyDeficit):
		return model.ZoneUnhealthyDeficit
	case calories < float64(z.FastLoss):
		return model.ZoneFastLoss
	case calories < float64(z.HealthyLoss):
		return model.ZoneHealthyLoss
	case calories < float64(z.SlowLoss):
		return model.ZoneSlowLoss
	case calories < float64(z.Maintenance):
		return model.ZoneMaintenance
	default:
		return model.ZoneSurplus
	}
}

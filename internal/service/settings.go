package service

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
)

const (
	ConfigSheetURL = "sheet_url"
	ConfigMinDate  = "min_date"

	configTargetBMI      = "target_bmi"
	configTargetProteins = "target_proteins"
	configTargetFats     = "target_fats"
	configTargetCarbs    = "target_carbs"
	configHeightCm       = "height_cm"

	configZoneUnhealthyDeficit = "zone_unhealthy_deficit"
	configZoneFastLoss         = "zone_fast_loss"
	configZoneHealthyLoss      = "zone_healthy_loss"
	configZoneSlowLoss         = "zone_slow_loss"
	configZoneMaintenance      = "zone_maintenance"
)

func defaultMacro(v int) *int { return &v }

// DefaultTargets are used until the user saves their own; stored overrides
// are overlaid on top of these at load time.
func DefaultTargets() model.TargetConfiguration {
	return model.TargetConfiguration{
		BMI:      21.5,
		Proteins: defaultMacro(140),
		Fats:     defaultMacro(70),
		Carbs:    defaultMacro(200),
		Zones: model.CalorieZones{
			UnhealthyDeficit: 1200,
			FastLoss:         1500,
			HealthyLoss:      1800,
			SlowLoss:         2100,
			Maintenance:      2500,
		},
		HeightCm: 170,
	}
}

const defaultMinDate = "2024-01-01"

func SetConfig(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

func GetConfig(db *sql.DB, key string) (string, bool, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return "", false, fmt.Errorf("config key is required")
	}
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

// SheetURL returns the configured endpoint URL; ok is false when the user
// has not configured one yet.
func SheetURL(db *sql.DB) (string, bool, error) {
	url, ok, err := GetConfig(db, ConfigSheetURL)
	if err != nil {
		return "", false, err
	}
	return url, ok && strings.TrimSpace(url) != "", nil
}

func SetSheetURL(db *sql.DB, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("sheet url is required")
	}
	return SetConfig(db, ConfigSheetURL, url)
}

// MinAllowedDate is the lower clamp for date-range flags; "today" is always
// the upper clamp.
func MinAllowedDate(db *sql.DB) (time.Time, error) {
	raw, ok, err := GetConfig(db, ConfigMinDate)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		raw = defaultMinDate
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored min date %q: %w", raw, err)
	}
	return t, nil
}

// LoadTargets builds the effective configuration: defaults overlaid with
// whatever the user has saved.
func LoadTargets(db *sql.DB) (model.TargetConfiguration, error) {
	t := DefaultTargets()

	if err := overlayFloat(db, configTargetBMI, &t.BMI); err != nil {
		return t, err
	}
	if err := overlayFloat(db, configHeightCm, &t.HeightCm); err != nil {
		return t, err
	}
	if err := overlayMacro(db, configTargetProteins, &t.Proteins); err != nil {
		return t, err
	}
	if err := overlayMacro(db, configTargetFats, &t.Fats); err != nil {
		return t, err
	}
	if err := overlayMacro(db, configTargetCarbs, &t.Carbs); err != nil {
		return t, err
	}
	if err := overlayInt(db, configZoneUnhealthyDeficit, &t.Zones.UnhealthyDeficit); err != nil {
		return t, err
	}
	if err := overlayInt(db, configZoneFastLoss, &t.Zones.FastLoss); err != nil {
		return t, err
	}
	if err := overlayInt(db, configZoneHealthyLoss, &t.Zones.HealthyLoss); err != nil {
		return t, err
	}
	if err := overlayInt(db, configZoneSlowLoss, &t.Zones.SlowLoss); err != nil {
		return t, err
	}
	if err := overlayInt(db, configZoneMaintenance, &t.Zones.Maintenance); err != nil {
		return t, err
	}
	return t, nil
}

// SaveTargets validates and replaces the stored configuration wholesale,
// inside one transaction. Classification already baked into fetched records
// does not change until the next fetch.
func SaveTargets(db *sql.DB, t model.TargetConfiguration) error {
	if err := ValidateTargets(t); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin settings tx: %w", err)
	}
	pairs := []struct {
		key   string
		value string
	}{
		{configTargetBMI, strconv.FormatFloat(t.BMI, 'f', -1, 64)},
		{configHeightCm, strconv.FormatFloat(t.HeightCm, 'f', -1, 64)},
		{configTargetProteins, macroString(t.Proteins)},
		{configTargetFats, macroString(t.Fats)},
		{configTargetCarbs, macroString(t.Carbs)},
		{configZoneUnhealthyDeficit, strconv.Itoa(t.Zones.UnhealthyDeficit)},
		{configZoneFastLoss, strconv.Itoa(t.Zones.FastLoss)},
		{configZoneHealthyLoss, strconv.Itoa(t.Zones.HealthyLoss)},
		{configZoneSlowLoss, strconv.Itoa(t.Zones.SlowLoss)},
		{configZoneMaintenance, strconv.Itoa(t.Zones.Maintenance)},
	}
	for _, p := range pairs {
		if _, err := tx.Exec(`
INSERT INTO app_config(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, p.key, p.value); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save setting %q: %w", p.key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settings tx: %w", err)
	}
	return nil
}

func ValidateTargets(t model.TargetConfiguration) error {
	if t.BMI <= 0 {
		return fmt.Errorf("bmi target must be > 0")
	}
	if t.HeightCm <= 0 {
		return fmt.Errorf("height must be > 0")
	}
	for _, m := range []struct {
		name  string
		value *int
	}{
		{"proteins", t.Proteins},
		{"fats", t.Fats},
		{"carbs", t.Carbs},
	} {
		if m.value != nil && *m.value < 0 {
			return fmt.Errorf("%s target must be >= 0", m.name)
		}
	}
	z := t.Zones
	bounds := []int{z.UnhealthyDeficit, z.FastLoss, z.HealthyLoss, z.SlowLoss, z.Maintenance, model.SurplusBound}
	for i := 1; i < len(bounds); i++ {
		if bounds[i-1] >= bounds[i] {
			return fmt.Errorf("calorie zone boundaries must be strictly ascending")
		}
	}
	if z.UnhealthyDeficit <= 0 {
		return fmt.Errorf("calorie zone boundaries must be > 0")
	}
	return nil
}

func macroString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func overlayFloat(db *sql.DB, key string, dst *float64) error {
	raw, ok, err := GetConfig(db, key)
	if err != nil || !ok {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid stored setting %q=%q: %w", key, raw, err)
	}
	*dst = v
	return nil
}

func overlayInt(db *sql.DB, key string, dst *int) error {
	raw, ok, err := GetConfig(db, key)
	if err != nil || !ok {
		return err
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid stored setting %q=%q: %w", key, raw, err)
	}
	*dst = v
	return nil
}

func overlayMacro(db *sql.DB, key string, dst **int) error {
	raw, ok, err := GetConfig(db, key)
	if err != nil || !ok {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*dst = nil
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid stored setting %q=%q: %w", key, raw, err)
	}
	*dst = &v
	return nil
}

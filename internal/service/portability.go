package service

import (
	"database/sql"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
)

type settingsDocument struct {
	SheetURL string        `yaml:"sheet_url,omitempty"`
	MinDate  string        `yaml:"min_date,omitempty"`
	BMI      float64       `yaml:"bmi"`
	HeightCm float64       `yaml:"height_cm"`
	Proteins *int          `yaml:"proteins"`
	Fats     *int          `yaml:"fats"`
	Carbs    *int          `yaml:"carbs"`
	Zones    zonesDocument `yaml:"zones"`
}

type zonesDocument struct {
	UnhealthyDeficit int `yaml:"unhealthy_deficit"`
	FastLoss         int `yaml:"fast_loss"`
	HealthyLoss      int `yaml:"healthy_loss"`
	SlowLoss         int `yaml:"slow_loss"`
	Maintenance      int `yaml:"maintenance"`
}

// ExportSettings renders the effective configuration as YAML, for moving
// targets between machines.
func ExportSettings(db *sql.DB) ([]byte, error) {
	targets, err := LoadTargets(db)
	if err != nil {
		return nil, err
	}
	doc := settingsDocument{
		BMI:      targets.BMI,
		HeightCm: targets.HeightCm,
		Proteins: targets.Proteins,
		Fats:     targets.Fats,
		Carbs:    targets.Carbs,
		Zones: zonesDocument{
			UnhealthyDeficit: targets.Zones.UnhealthyDeficit,
			FastLoss:         targets.Zones.FastLoss,
			HealthyLoss:      targets.Zones.HealthyLoss,
			SlowLoss:         targets.Zones.SlowLoss,
			Maintenance:      targets.Zones.Maintenance,
		},
	}
	if url, ok, err := SheetURL(db); err != nil {
		return nil, err
	} else if ok {
		doc.SheetURL = url
	}
	minDate, err := MinAllowedDate(db)
	if err != nil {
		return nil, err
	}
	doc.MinDate = minDate.Format("2006-01-02")

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return out, nil
}

// ImportSettings replaces the stored configuration from a YAML document
// produced by ExportSettings.
func ImportSettings(db *sql.DB, data []byte) error {
	var doc settingsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	targets := model.TargetConfiguration{
		BMI:      doc.BMI,
		HeightCm: doc.HeightCm,
		Proteins: doc.Proteins,
		Fats:     doc.Fats,
		Carbs:    doc.Carbs,
		Zones: model.CalorieZones{
			UnhealthyDeficit: doc.Zones.UnhealthyDeficit,
			FastLoss:         doc.Zones.FastLoss,
			HealthyLoss:      doc.Zones.HealthyLoss,
			SlowLoss:         doc.Zones.SlowLoss,
			Maintenance:      doc.Zones.Maintenance,
		},
	}
	if err := SaveTargets(db, targets); err != nil {
		return err
	}
	if doc.SheetURL != "" {
		if err := SetSheetURL(db, doc.SheetURL); err != nil {
			return err
		}
	}
	if doc.MinDate != "" {
		if _, err := time.Parse("2006-01-02", doc.MinDate); err != nil {
			return fmt.Errorf("invalid min_date %q (expected YYYY-MM-DD)", doc.MinDate)
		}
		if err := SetConfig(db, ConfigMinDate, doc.MinDate); err != nil {
			return err
		}
	}
	return nil
}

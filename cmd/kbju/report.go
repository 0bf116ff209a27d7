package kbju

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaallexandr/kbju-dashboard/internal/pipeline"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Weekly rollups of weight, BMI, and calories",
}

var (
	reportView    string
	reportFrom    string
	reportTo      string
	reportJSON    bool
	reportOffline bool
)

var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Per-week averages over the selected date range",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := strings.ToLower(strings.TrimSpace(reportView))
		if view != "metrics" && view != "nutrition" {
			return fmt.Errorf("invalid --view %q (use metrics or nutrition)", reportView)
		}
		return withDB(func(sqldb *sql.DB) error {
			ds, err := loadDataset(cmd, sqldb, reportOffline)
			if err != nil {
				return err
			}
			from, err := parseDateFlag("--from", reportFrom)
			if err != nil {
				return err
			}
			to, err := parseDateFlag("--to", reportTo)
			if err != nil {
				return err
			}
			now := time.Now()
			from, to, err = clampRange(sqldb, from, to, now)
			if err != nil {
				return err
			}

			var rows []pipeline.WeeklyAverage
			if view == "metrics" {
				visible := pipeline.FilterWeight(ds.Weight, from, to)
				rows = pipeline.WeightWeekly(visible, ds.Nutrition, ds.Targets.Zones, now)
			} else {
				visible := pipeline.FilterNutrition(ds.Nutrition, from, to)
				rows = pipeline.NutritionWeekly(visible, ds.Targets.Zones, now)
			}

			if reportJSON {
				return printJSON(cmd, rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No complete or in-progress weeks in the selected range.")
				return nil
			}
			for _, row := range rows {
				fmt.Fprintln(cmd.OutOrStdout(), formatWeeklyRow(row))
			}
			return nil
		})
	},
}

var (
	seriesField   string
	seriesFrom    string
	seriesTo      string
	seriesJSON    bool
	seriesOffline bool
)

var reportSeriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Weekly chart series, stable across narrowed ranges",
	Long:  "Emits one weekly point per week that has at least one day inside the range, averaging over the whole week's days so points do not drift as the range narrows mid-week.",
	RunE: func(cmd *cobra.Command, args []string) error {
		field := strings.ToLower(strings.TrimSpace(seriesField))
		return withDB(func(sqldb *sql.DB) error {
			ds, err := loadDataset(cmd, sqldb, seriesOffline)
			if err != nil {
				return err
			}
			from, err := parseDateFlag("--from", seriesFrom)
			if err != nil {
				return err
			}
			to, err := parseDateFlag("--to", seriesTo)
			if err != nil {
				return err
			}
			from, to, err = clampRange(sqldb, from, to, time.Now())
			if err != nil {
				return err
			}

			var points []pipeline.SeriesPoint
			switch field {
			case "weight":
				points = pipeline.WeightSeriesByWeek(ds.Weight, pipeline.FilterWeight(ds.Weight, from, to), pipeline.FieldWeight)
			case "bmi":
				points = pipeline.WeightSeriesByWeek(ds.Weight, pipeline.FilterWeight(ds.Weight, from, to), pipeline.FieldBMI)
			case "calories":
				points = pipeline.CalorieSeriesByWeek(ds.Nutrition, pipeline.FilterNutrition(ds.Nutrition, from, to))
			default:
				return fmt.Errorf("invalid --field %q (use weight, bmi, or calories)", seriesField)
			}

			if seriesJSON {
				return printJSON(cmd, points)
			}
			for _, p := range points {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %.1f\n", p.Week, p.Value)
			}
			return nil
		})
	},
}

func formatWeeklyRow(row pipeline.WeeklyAverage) string {
	parts := []string{"week of " + row.Week}
	if row.AvgWeight != nil {
		parts = append(parts, fmt.Sprintf("weight %.1f", *row.AvgWeight))
	}
	if row.AvgBMI != nil {
		parts = append(parts, fmt.Sprintf("bmi %.1f", *row.AvgBMI))
	}
	if row.AvgCalories != nil {
		zone := ""
		if row.CalorieZone != nil {
			zone = fmt.Sprintf(" (%s)", *row.CalorieZone)
		}
		parts = append(parts, fmt.Sprintf("%d kcal%s", *row.AvgCalories, zone))
	}
	line := strings.Join(parts, " | ")
	if row.Incomplete {
		line += "  [in progress]"
	}
	return line
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportWeeklyCmd)
	reportCmd.AddCommand(reportSeriesCmd)

	reportWeeklyCmd.Flags().StringVar(&reportView, "view", "metrics", "View: metrics (weight/BMI) or nutrition")
	reportWeeklyCmd.Flags().StringVar(&reportFrom, "from", "", "Range start YYYY-MM-DD (inclusive)")
	reportWeeklyCmd.Flags().StringVar(&reportTo, "to", "", "Range end YYYY-MM-DD (inclusive)")
	reportWeeklyCmd.Flags().BoolVar(&reportJSON, "json", false, "Emit JSON")
	reportWeeklyCmd.Flags().BoolVar(&reportOffline, "offline", false, "Use the cached snapshot instead of fetching")

	reportSeriesCmd.Flags().StringVar(&seriesField, "field", "weight", "Series field: weight, bmi, or calories")
	reportSeriesCmd.Flags().StringVar(&seriesFrom, "from", "", "Range start YYYY-MM-DD (inclusive)")
	reportSeriesCmd.Flags().StringVar(&seriesTo, "to", "", "Range end YYYY-MM-DD (inclusive)")
	reportSeriesCmd.Flags().BoolVar(&seriesJSON, "json", false, "Emit JSON")
	reportSeriesCmd.Flags().BoolVar(&seriesOffline, "offline", false, "Use the cached snapshot instead of fetching")
}

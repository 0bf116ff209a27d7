package kbju

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
	"github.com/aaallexandr/kbju-dashboard/internal/pipeline"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Macro adherence and calorie-zone statistics",
}

var (
	statsMacro   string
	statsFrom    string
	statsTo      string
	statsJSON    bool
	statsOffline bool
)

var statsMacrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "Average, distribution, and success rate per macro",
	RunE: func(cmd *cobra.Command, args []string) error {
		macros := []pipeline.Macro{pipeline.MacroProteins, pipeline.MacroFats, pipeline.MacroCarbs}
		if m := strings.ToLower(strings.TrimSpace(statsMacro)); m != "" && m != "all" {
			switch pipeline.Macro(m) {
			case pipeline.MacroProteins, pipeline.MacroFats, pipeline.MacroCarbs:
				macros = []pipeline.Macro{pipeline.Macro(m)}
			default:
				return fmt.Errorf("invalid --macro %q (use proteins, fats, carbs, or all)", statsMacro)
			}
		}
		return withDB(func(sqldb *sql.DB) error {
			recs, targets, err := visibleNutrition(cmd, sqldb, statsFrom, statsTo, statsOffline)
			if err != nil {
				return err
			}

			if statsJSON {
				out := make(map[string]pipeline.MacroStats, len(macros))
				for _, m := range macros {
					out[string(m)] = pipeline.ComputeMacroStats(recs, m, targets)
				}
				return printJSON(cmd, out)
			}
			for _, m := range macros {
				s := pipeline.ComputeMacroStats(recs, m, targets)
				target := "not set"
				if t := targets.MacroTarget(string(m)); t != nil {
					target = fmt.Sprintf("%dg", *t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (target %s)\n", m, target)
				fmt.Fprintf(cmd.OutOrStdout(), "  avg %.1fg over %d days\n", s.Avg, s.Total)
				fmt.Fprintf(cmd.OutOrStdout(), "  below %d | within %d | above %d\n", s.Distribution.Below, s.Distribution.Within, s.Distribution.Above)
				fmt.Fprintf(cmd.OutOrStdout(), "  success %d/%d (%d%%)\n", s.SuccessCount, s.Total, s.SuccessRate)
			}
			return nil
		})
	},
}

var (
	zonesFrom    string
	zonesTo      string
	zonesJSON    bool
	zonesOffline bool
)

var statsZonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "Day counts per calorie zone",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			recs, _, err := visibleNutrition(cmd, sqldb, zonesFrom, zonesTo, zonesOffline)
			if err != nil {
				return err
			}
			dist := pipeline.CategoryDistribution(recs)

			if zonesJSON {
				return printJSON(cmd, dist)
			}
			for _, zone := range model.Zones() {
				if count, ok := dist[zone]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%-18s %d\n", zone, count)
				}
			}
			return nil
		})
	},
}

func visibleNutrition(cmd *cobra.Command, sqldb *sql.DB, fromFlag, toFlag string, offline bool) ([]model.NutritionRecord, model.TargetConfiguration, error) {
	ds, err := loadDataset(cmd, sqldb, offline)
	if err != nil {
		return nil, model.TargetConfiguration{}, err
	}
	from, err := parseDateFlag("--from", fromFlag)
	if err != nil {
		return nil, model.TargetConfiguration{}, err
	}
	to, err := parseDateFlag("--to", toFlag)
	if err != nil {
		return nil, model.TargetConfiguration{}, err
	}
	from, to, err = clampRange(sqldb, from, to, time.Now())
	if err != nil {
		return nil, model.TargetConfiguration{}, err
	}
	return pipeline.FilterNutrition(ds.Nutrition, from, to), ds.Targets, nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.AddCommand(statsMacrosCmd)
	statsCmd.AddCommand(statsZonesCmd)

	statsMacrosCmd.Flags().StringVar(&statsMacro, "macro", "all", "Macro: proteins, fats, carbs, or all")
	statsMacrosCmd.Flags().StringVar(&statsFrom, "from", "", "Range start YYYY-MM-DD (inclusive)")
	statsMacrosCmd.Flags().StringVar(&statsTo, "to", "", "Range end YYYY-MM-DD (inclusive)")
	statsMacrosCmd.Flags().BoolVar(&statsJSON, "json", false, "Emit JSON")
	statsMacrosCmd.Flags().BoolVar(&statsOffline, "offline", false, "Use the cached snapshot instead of fetching")

	statsZonesCmd.Flags().StringVar(&zonesFrom, "from", "", "Range start YYYY-MM-DD (inclusive)")
	statsZonesCmd.Flags().StringVar(&zonesTo, "to", "", "Range end YYYY-MM-DD (inclusive)")
	statsZonesCmd.Flags().BoolVar(&zonesJSON, "json", false, "Emit JSON")
	statsZonesCmd.Flags().BoolVar(&zonesOffline, "offline", false, "Use the cached snapshot instead of fetching")
}

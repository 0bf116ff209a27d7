package kbju

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aaallexandr/kbju-dashboard/internal/model"
	"github.com/aaallexandr/kbju-dashboard/internal/service"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and edit targets, zones, and the sheet endpoint",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			targets, err := service.LoadTargets(sqldb)
			if err != nil {
				return err
			}
			url, ok, err := service.SheetURL(sqldb)
			if err != nil {
				return err
			}
			if !ok {
				url = "(not set)"
			}
			minDate, err := service.MinAllowedDate(sqldb)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sheet URL: %s\n", url)
			fmt.Fprintf(out, "Min date:  %s\n", minDate.Format("2006-01-02"))
			fmt.Fprintf(out, "BMI target: %.1f (height %.0f cm)\n", targets.BMI, targets.HeightCm)
			fmt.Fprintf(out, "Macro targets: proteins %s | fats %s | carbs %s\n",
				macroDisplay(targets.Proteins), macroDisplay(targets.Fats), macroDisplay(targets.Carbs))
			z := targets.Zones
			fmt.Fprintf(out, "Calorie zones: <%d unhealthy deficit | <%d fast loss | <%d healthy loss | <%d slow loss | <%d maintenance | surplus\n",
				z.UnhealthyDeficit, z.FastLoss, z.HealthyLoss, z.SlowLoss, z.Maintenance)
			return nil
		})
	},
}

var (
	setBMI      string
	setHeight   string
	setProteins string
	setFats     string
	setCarbs    string
	setZones    string
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save target changes",
	Long:  "Updates the stored targets. Omitted flags keep their current values; pass an empty string to a macro flag to clear that target. Zone classification baked into fetched records follows on the next fetch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			targets, err := service.LoadTargets(sqldb)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bmi") {
				v, err := strconv.ParseFloat(strings.TrimSpace(setBMI), 64)
				if err != nil {
					return fmt.Errorf("invalid --bmi %q", setBMI)
				}
				targets.BMI = v
			}
			if cmd.Flags().Changed("height") {
				v, err := strconv.ParseFloat(strings.TrimSpace(setHeight), 64)
				if err != nil {
					return fmt.Errorf("invalid --height %q", setHeight)
				}
				targets.HeightCm = v
			}
			if cmd.Flags().Changed("proteins") {
				if targets.Proteins, err = parseMacroFlag("--proteins", setProteins); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("fats") {
				if targets.Fats, err = parseMacroFlag("--fats", setFats); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("carbs") {
				if targets.Carbs, err = parseMacroFlag("--carbs", setCarbs); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("zones") {
				zones, err := parseZonesFlag(setZones)
				if err != nil {
					return err
				}
				targets.Zones = zones
			}

			if err := service.SaveTargets(sqldb, targets); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Targets saved. Run 'kbju fetch' to reclassify records against them.")
			return nil
		})
	},
}

var settingsSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Configure the sheet endpoint URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetSheetURL(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sheet URL saved.")
			return nil
		})
	},
}

var settingsSetMinDateCmd = &cobra.Command{
	Use:   "set-min-date <date>",
	Short: "Set the earliest selectable date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := parseDateFlag("date", args[0]); err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.SetConfig(sqldb, service.ConfigMinDate, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Minimum date saved.")
			return nil
		})
	},
}

var settingsExportOut string

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export settings as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			out, err := service.ExportSettings(sqldb)
			if err != nil {
				return err
			}
			if settingsExportOut == "" {
				fmt.Fprint(cmd.OutOrStdout(), string(out))
				return nil
			}
			if err := os.WriteFile(settingsExportOut, out, 0o644); err != nil {
				return fmt.Errorf("write settings file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings exported to %s\n", settingsExportOut)
			return nil
		})
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import settings from a YAML export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read settings file: %w", err)
		}
		return withDB(func(sqldb *sql.DB) error {
			if err := service.ImportSettings(sqldb, data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings imported. Run 'kbju fetch' to reclassify records against them.")
			return nil
		})
	},
}

func macroDisplay(v *int) string {
	if v == nil {
		return "not set"
	}
	return fmt.Sprintf("%dg", *v)
}

func parseMacroFlag(name, value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q (expected integer grams)", name, value)
	}
	return &v, nil
}

func parseZonesFlag(value string) (model.CalorieZones, error) {
	parts := strings.Split(strings.TrimSpace(value), ",")
	if len(parts) != 5 {
		return model.CalorieZones{}, fmt.Errorf("--zones expects 5 comma-separated ascending boundaries")
	}
	bounds := make([]int, 5)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return model.CalorieZones{}, fmt.Errorf("invalid zone boundary %q", p)
		}
		bounds[i] = v
	}
	return model.CalorieZones{
		UnhealthyDeficit: bounds[0],
		FastLoss:         bounds[1],
		HealthyLoss:      bounds[2],
		SlowLoss:         bounds[3],
		Maintenance:      bounds[4],
	}, nil
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetURLCmd)
	settingsCmd.AddCommand(settingsSetMinDateCmd)
	settingsCmd.AddCommand(settingsExportCmd)
	settingsCmd.AddCommand(settingsImportCmd)

	settingsSetCmd.Flags().StringVar(&setBMI, "bmi", "", "BMI target")
	settingsSetCmd.Flags().StringVar(&setHeight, "height", "", "Height in cm (used to derive BMI)")
	settingsSetCmd.Flags().StringVar(&setProteins, "proteins", "", "Proteins target in grams (empty clears)")
	settingsSetCmd.Flags().StringVar(&setFats, "fats", "", "Fats target in grams (empty clears)")
	settingsSetCmd.Flags().StringVar(&setCarbs, "carbs", "", "Carbs target in grams (empty clears)")
	settingsSetCmd.Flags().StringVar(&setZones, "zones", "", "Five ascending calorie boundaries, e.g. 1200,1500,1800,2100,2500")
	settingsExportCmd.Flags().StringVar(&settingsExportOut, "out", "", "Write to file instead of stdout")
}

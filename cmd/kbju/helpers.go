package kbju

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aaallexandr/kbju-dashboard/internal/app"
	"github.com/aaallexandr/kbju-dashboard/internal/db"
	"github.com/aaallexandr/kbju-dashboard/internal/pipeline"
	"github.com/aaallexandr/kbju-dashboard/internal/service"
	"github.com/aaallexandr/kbju-dashboard/internal/sheet"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func parseDateFlag(name, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", name, value)
	}
	return &t, nil
}

// clampRange pins explicit bounds between the configured minimum date and
// today. Missing bounds stay open.
func clampRange(sqldb *sql.DB, from, to *time.Time, now time.Time) (*time.Time, *time.Time, error) {
	min, err := service.MinAllowedDate(sqldb)
	if err != nil {
		return nil, nil, err
	}
	today := pipeline.Day(now)
	if from != nil && from.Before(min) {
		from = &min
	}
	if to != nil && to.After(today) {
		to = &today
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("--from must be <= --to")
	}
	return from, to, nil
}

func loadDataset(cmd *cobra.Command, sqldb *sql.DB, offline bool) (*service.Dataset, error) {
	if offline {
		return service.LoadCached(sqldb)
	}
	return service.Load(cmd.Context(), sqldb, &sheet.Client{})
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

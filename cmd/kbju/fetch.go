package kbju

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaallexandr/kbju-dashboard/internal/service"
	"github.com/aaallexandr/kbju-dashboard/internal/sheet"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the sheet and refresh the cached snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			ds, err := service.Load(cmd.Context(), sqldb, &sheet.Client{})
			if errors.Is(err, service.ErrEmptyDataset) {
				fmt.Fprintln(cmd.OutOrStdout(), "The sheet is reachable but has no rows yet.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d weight rows and %d nutrition rows.\n", len(ds.Weight), len(ds.Nutrition))
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot cached at %s.\n", ds.FetchedAt.Format("2006-01-02 15:04 MST"))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

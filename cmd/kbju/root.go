package kbju

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "kbju",
	Short: "kbju renders weight and nutrition reports from a shared spreadsheet",
	Long:  "kbju fetches daily weight and calorie/macro rows from a spreadsheet-backed endpoint and turns them into weekly rollups, calorie-zone breakdowns, and target-adherence statistics.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite settings database")
}

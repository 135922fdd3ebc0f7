package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Registers the schema migrations of the inventory API.
	_ "github.com/shashiranjanraj/stockroom/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "stockroom",
	Short:         "stockroom: SKU warehouse dashboard",
	Long:          "stockroom serves the SKU warehouse dashboard and the inventory API it reads from.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Servers
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(serveAPICmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(scheduleListCmd)
	rootCmd.AddCommand(scheduleRunCmd)

	// Tools
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(browseCmd)
}

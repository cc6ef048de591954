// Package cmd defines the CLI commands for the winemaker-crawler executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "winemaker-crawler",
		Short: "Scrapes and translates winemaker profiles from a site's sitemap.",
		Long: `winemaker-crawler walks a site's XML sitemap, fetches the winemaker
profile pages it lists, extracts their text, translates it, and appends new
rows to a persisted profile table. URLs already recorded are never re-fetched.`,

		PersistentPreRun: func(*cobra.Command, []string) {
			// Optional .env for local development; absence is not an error.
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in terrovin.be settings)")
	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

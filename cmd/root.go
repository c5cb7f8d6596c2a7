package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "examboard",
	Short: "examboard – countdown board for exam sessions",
	Long: `examboard keeps a schedule of exam sessions and shows a live countdown
board for the active one, in the terminal or over HTTP for room displays.
Settings live in ~/.examboard/config.json; the schedule is stored in
~/.examboard/ unless a redis or postgres backend is configured.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.examboard/config.json)")

	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(centerCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

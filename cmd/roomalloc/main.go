// Command roomalloc serves the hotel room allocation API and replays booking scenarios.
package main

import (
	"os"

	"github.com/navikt/roomalloc/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string // Log verbosity level

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "roomalloc",
	Short: "Hotel room allocation service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}

		level := logLevel
		if !cmd.Flags().Changed("log") {
			level = config.GetServerConfig().LogLevel
		}
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		logrus.SetLevel(parsed)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"logvault/config"
)

var cfg *config.Config

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "logvault",
	Short: "Combine rotated log files into one time-indexed archive",
	Long: `logvault merges rotated log files into a single chronologically sorted
archive, writes a per-second byte-offset index next to it, and answers
time-window queries from that index, either on the command line or over
HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		setupLogger(c)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger configures the global zerolog logger. Output always goes to
// stderr so that stream's stdout stays clean for piping.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

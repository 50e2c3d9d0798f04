package cli

import (
	"os"

	"github.com/spf13/cobra"

	"logvault/internal/query"
)

var streamCmd = &cobra.Command{
	Use:   "stream <archive> <after> <before>",
	Short: "Write the archive bytes for a time window to stdout",
	Long: `Stream resolves the inclusive [after, before] window through the archive's
per-second index and copies the matching byte range to stdout untouched.
Timestamps use the YYYY-MM-DDTHH:MM:SS format. Logs go to stderr, so the
output can be piped straight into grep, awk or less.

Examples:
  logvault stream combined.log 2025-11-05T10:00:00 2025-11-05T10:59:59
  logvault stream combined.log 2025-11-05T10:00:00 2025-11-05T10:00:00 | grep ERROR`,
	Args: cobra.ExactArgs(3),
	RunE: runStream,
}

func init() {
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	engine, err := query.NewEngine(cfg.Query.ShardCacheSize)
	if err != nil {
		return err
	}

	_, err = engine.View(args[0], args[1], args[2], os.Stdout)
	return err
}

package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"logvault/internal/aggregator"
	"logvault/internal/dto"
	"logvault/internal/manifest"
	"logvault/internal/parser"
	"logvault/internal/service"
	"logvault/internal/store"
)

var (
	combineScope    string
	combineForce    bool
	combineIndex    bool
	combineCleanup  bool
	combineProgress bool
)

var combineCmd = &cobra.Command{
	Use:   "combine <pattern> <output>",
	Short: "Merge matching log files into one time-sorted archive",
	Long: `Combine expands the glob pattern, extracts every timestamped entry from
the matching files, sorts the entries chronologically and writes them
into a single archive. Unless disabled, a per-second byte-offset index
is written next to the archive for later range queries.

The output path may contain the {date} placeholder, which is replaced
with the current date stamp (YYYY-MM-DD).

Examples:
  logvault combine "/var/log/app/*.log" /srv/archive/app-{date}.log
  logvault combine "logs/**/*.log" combined.log --scope past --cleanup`,
	Args: cobra.ExactArgs(2),
	RunE: runCombine,
}

func init() {
	combineCmd.Flags().StringVar(&combineScope, "scope", "all", "rotation periods to include: all, current or past")
	combineCmd.Flags().BoolVar(&combineForce, "force", true, "overwrite the output archive if it already exists")
	combineCmd.Flags().BoolVar(&combineIndex, "index", true, "write the per-second index next to the archive")
	combineCmd.Flags().BoolVar(&combineCleanup, "cleanup", false, "delete the source files after a successful write")
	combineCmd.Flags().BoolVar(&combineProgress, "progress", false, "render progress bars on stderr")
	rootCmd.AddCommand(combineCmd)
}

func runCombine(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	agg := aggregator.New(parser.NewMarkerExtractor(), aggregator.Config{
		DateStamp:       cfg.Aggregator.DateStamp,
		ReadConcurrency: cfg.Aggregator.ReadConcurrency,
		ShowProgress:    combineProgress,
	})
	svc := service.NewAggregationService(cfg, agg,
		manifest.NewManager(cfg.Manifest.FilePath),
		store.NewInMemoryRunHistory(cfg.Aggregator.HistorySize))

	result, err := svc.RunAggregation(dto.AggregateRequest{
		Pattern:        args[0],
		OutputTemplate: args[1],
		Scope:          combineScope,
		Force:          combineForce,
		BuildIndex:     combineIndex,
		Cleanup:        combineCleanup,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Wrote {
		fmt.Fprintf(out, "Output %s already exists, leaving it untouched (use --force to overwrite)\n", result.ArchivePath)
		return nil
	}

	fmt.Fprintf(out, "Combined %d entries from %d files into %s (%s)\n",
		result.EntryCount, result.SourceCount, result.ArchivePath, humanize.Bytes(uint64(result.BytesWritten)))
	if result.IndexPath != "" {
		fmt.Fprintf(out, "Index written to %s\n", result.IndexPath)
	}
	return nil
}

package aggregator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"logvault/internal/index"
	"logvault/internal/metrics"
	"logvault/internal/model"
	"logvault/internal/parser"
)

var ErrSourceUnreadable = errors.New("source file unreadable")

// DatePlaceholder is the literal substituted with the current date-stamp in
// output templates.
const DatePlaceholder = "{date}"

// DateStampLayout is the stamp format shared by the scope filter and the
// output template substitution.
const DateStampLayout = "2006-01-02"

// Config tunes one Aggregator.
type Config struct {
	// DateStamp marks the current period for the scope filter and the {date}
	// placeholder. Empty means today, UTC. Injected so scope behavior is
	// testable without touching the wall clock.
	DateStamp string
	// ReadConcurrency bounds how many source files are extracted at once.
	ReadConcurrency int
	// ShowProgress draws terminal progress bars during the read and write
	// passes.
	ShowProgress bool
}

// WriteResult reports what one write pass did. Wrote is false when an
// existing archive was left untouched because force was off.
type WriteResult struct {
	Wrote        bool
	ArchivePath  string
	IndexPath    string
	EntryCount   int
	BytesWritten int64
}

// Result reports one complete aggregation pass.
type Result struct {
	WriteResult
	Pattern     string
	Scope       model.Scope
	SourceCount int
	Duration    time.Duration
}

type Aggregator struct {
	extractor parser.Extractor
	cfg       Config
}

func New(extractor parser.Extractor, cfg Config) *Aggregator {
	if cfg.DateStamp == "" {
		cfg.DateStamp = time.Now().UTC().Format(DateStampLayout)
	}
	if cfg.ReadConcurrency <= 0 {
		cfg.ReadConcurrency = 4
	}
	return &Aggregator{extractor: extractor, cfg: cfg}
}

// DateStamp returns the current-period stamp the aggregator was built with.
func (a *Aggregator) DateStamp() string {
	return a.cfg.DateStamp
}

// ResolveOutputPath substitutes the {date} placeholder in an output template.
func (a *Aggregator) ResolveOutputPath(template string) string {
	return strings.ReplaceAll(template, DatePlaceholder, a.cfg.DateStamp)
}

// ListFiles expands pattern and keeps regular files admitted by scope.
// Rotated logs carry their period in the filename, so the scope filter is a
// date-stamp substring match against the base name, not file metadata.
func (a *Aggregator) ListFiles(pattern string, scope model.Scope) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		stamped := strings.Contains(filepath.Base(match), a.cfg.DateStamp)
		if (scope == model.ScopeCurrent && !stamped) || (scope == model.ScopePast && stamped) {
			continue
		}
		files = append(files, match)
	}
	sort.Strings(files)

	metrics.SourcesListed.WithLabelValues(scope.String()).Add(float64(len(files)))
	log.Info().Str("pattern", pattern).Str("scope", scope.String()).Int("files", len(files)).Msg("Listed source files")
	return files, nil
}

// Read extracts entries from every listed file. Files are independent, so
// extraction runs concurrently up to the configured limit; results land in
// listing order and the flattened list is left unsorted for Write to order
// globally.
func (a *Aggregator) Read(files []string) ([]model.LogEntry, error) {
	var bar *progressbar.ProgressBar
	if a.cfg.ShowProgress && len(files) > 0 {
		bar = progressbar.Default(int64(len(files)), "reading sources")
	}

	perFile := make([][]model.LogEntry, len(files))
	g := new(errgroup.Group)
	g.SetLimit(a.cfg.ReadConcurrency)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("%w: %s (%v)", ErrSourceUnreadable, file, err)
			}
			entries, err := a.extractor.Extract(data, file)
			if err != nil {
				return err
			}
			perFile[i] = entries
			log.Debug().Str("file", file).Int("entries", len(entries)).Msg("Extracted entries")
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var entries []model.LogEntry
	for _, list := range perFile {
		entries = append(entries, list...)
	}
	metrics.EntriesExtracted.Add(float64(len(entries)))
	log.Info().Int("files", len(files)).Int("entries", len(entries)).Msg("Extraction finished")
	return entries, nil
}

// Write streams every entry's exact byte range from its source into outPath
// in global timestamp order, feeding the index builder with each entry's
// write position before its bytes land. Source handles are opened lazily,
// cached for the duration of the pass and all released on every exit path.
func (a *Aggregator) Write(entries []model.LogEntry, outPath string, force, buildIndex bool) (*WriteResult, error) {
	result := &WriteResult{ArchivePath: outPath, EntryCount: len(entries)}

	if _, err := os.Stat(outPath); err == nil && !force {
		log.Warn().Str("path", outPath).Msg("Output already exists and force is off, not writing")
		return result, nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove prior archive: %w", err)
	}

	// A rebuild replaces the whole lineage. Prior shards describe the old
	// archive's layout; left behind under a different range name they would
	// shadow the new shard and resolve queries against the rewritten bytes.
	stale, err := index.Discover(outPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to list prior index shards: %w", err)
	}
	for _, ref := range stale {
		if err := os.Remove(ref.Path); err != nil {
			return nil, fmt.Errorf("failed to remove stale index shard %s: %w", ref.Path, err)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	sources := make(map[string]*os.File)
	defer func() {
		for _, src := range sources {
			src.Close()
		}
	}()

	var builder *index.Builder
	if buildIndex && len(entries) > 0 {
		builder = index.NewBuilder(entries[0].Timestamp.Unix())
	}

	var bar *progressbar.ProgressBar
	if a.cfg.ShowProgress && len(entries) > 0 {
		var total int64
		for _, entry := range entries {
			total += entry.Size()
		}
		bar = progressbar.DefaultBytes(total, "writing "+filepath.Base(outPath))
	}

	w := bufio.NewWriter(out)
	var written int64
	for _, entry := range entries {
		src, ok := sources[entry.Source]
		if !ok {
			src, err = os.Open(entry.Source)
			if err != nil {
				return nil, fmt.Errorf("%w: %s (%v)", ErrSourceUnreadable, entry.Source, err)
			}
			sources[entry.Source] = src
		}

		if builder != nil {
			if err := builder.Advance(entry.Timestamp.Unix(), written); err != nil {
				return nil, err
			}
		}

		n, err := io.Copy(w, io.NewSectionReader(src, entry.Start, entry.Size()))
		if err != nil {
			return nil, fmt.Errorf("failed to copy %s [%d:%d): %w", entry.Source, entry.Start, entry.End, err)
		}
		written += n
		if bar != nil {
			_ = bar.Add64(n)
		}
		log.Trace().Str("source", entry.Source).Int64("bytes", n).Time("timestamp", entry.Timestamp).Msg("Copied entry")
	}

	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close archive: %w", err)
	}

	result.Wrote = true
	result.BytesWritten = written
	metrics.ArchiveBytesWritten.Add(float64(written))

	if builder != nil {
		indexPath, err := builder.Dump(outPath)
		if err != nil {
			return nil, err
		}
		result.IndexPath = indexPath
		metrics.IndexSlotsWritten.Add(float64(builder.Slots()))
	}

	log.Info().
		Str("path", outPath).
		Int("entries", len(entries)).
		Str("size", humanize.Bytes(uint64(written))).
		Bool("indexed", builder != nil).
		Msg("Archive written")
	return result, nil
}

// Aggregate runs the full pass: list, extract, sort and write, then delete
// the consumed sources when cleanup is on. Cleanup only happens after a
// successful write and removes every listed file, contributing or not.
func (a *Aggregator) Aggregate(pattern, outputTemplate string, scope model.Scope, force, buildIndex, cleanup bool) (*Result, error) {
	started := time.Now()
	outPath := a.ResolveOutputPath(outputTemplate)

	files, err := a.ListFiles(pattern, scope)
	if err != nil {
		return nil, err
	}
	entries, err := a.Read(files)
	if err != nil {
		return nil, err
	}
	wr, err := a.Write(entries, outPath, force, buildIndex)
	if err != nil {
		return nil, err
	}

	if cleanup && wr.Wrote {
		for _, file := range files {
			if err := os.Remove(file); err != nil {
				return nil, fmt.Errorf("failed to clean up %s: %w", file, err)
			}
		}
		log.Info().Int("files", len(files)).Msg("Cleaned up source files")
	}

	duration := time.Since(started)
	metrics.AggregationDuration.Observe(duration.Seconds())

	return &Result{
		WriteResult: *wr,
		Pattern:     pattern,
		Scope:       scope,
		SourceCount: len(files),
		Duration:    duration,
	}, nil
}

package query

import (
	"fmt"
	"io"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"logvault/internal/index"
	"logvault/internal/metrics"
	"logvault/internal/parser"
)

// ByteRange is a resolved half-open [Start, End) archive slice.
type ByteRange struct {
	Start int64
	End   int64
}

// Len returns the number of bytes the range spans.
func (r ByteRange) Len() int64 {
	return r.End - r.Start
}

// Engine resolves timestamp windows to archive byte ranges through the
// per-second index, without scanning archive content. Loaded shards sit in a
// small LRU cache so repeated queries skip the disk read; a cached table is
// revalidated against the shard file's size and mtime, so a shard rewritten
// in place under the same name is reloaded rather than served stale.
type Engine struct {
	tables *lru.Cache
}

type cachedTable struct {
	table   *index.Table
	modTime time.Time
	size    int64
}

func NewEngine(cacheSize int) (*Engine, error) {
	if cacheSize <= 0 {
		cacheSize = 8
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create shard cache: %w", err)
	}
	return &Engine{tables: cache}, nil
}

func (e *Engine) loadTable(ref index.ShardRef) (*index.Table, error) {
	info, err := os.Stat(ref.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", index.ErrNotFound, ref.Path)
		}
		return nil, fmt.Errorf("failed to stat index shard: %w", err)
	}

	if cached, ok := e.tables.Get(ref.Path); ok {
		c := cached.(cachedTable)
		if c.size == info.Size() && c.modTime.Equal(info.ModTime()) {
			return c.table, nil
		}
	}

	table, err := index.Load(ref)
	if err != nil {
		return nil, err
	}
	e.tables.Add(ref.Path, cachedTable{table: table, modTime: info.ModTime(), size: info.Size()})
	log.Debug().Str("shard", ref.Path).Int("slots", len(table.Offsets)).Msg("Loaded index shard")
	return table, nil
}

// Resolve maps the inclusive [after, before] epoch-second window onto an
// archive byte range. The end bound is the offset one second past before;
// when before is the final indexed second that slot does not exist, and the
// range is clamped to the archive's current size instead.
func (e *Engine) Resolve(archivePath string, after, before int64) (ByteRange, error) {
	started := time.Now()

	if before < after {
		return ByteRange{}, fmt.Errorf("window end %d precedes start %d", before, after)
	}

	shards, err := index.Discover(archivePath)
	if err != nil {
		return ByteRange{}, err
	}
	afterRef, ok := findShard(shards, after)
	if !ok {
		return ByteRange{}, fmt.Errorf("%w: epoch %d (%s)", index.ErrNotFound, after, archivePath)
	}
	beforeRef, ok := findShard(shards, before)
	if !ok {
		return ByteRange{}, fmt.Errorf("%w: epoch %d (%s)", index.ErrNotFound, before, archivePath)
	}

	afterTable, err := e.loadTable(afterRef)
	if err != nil {
		return ByteRange{}, err
	}
	start, err := afterTable.OffsetAt(after)
	if err != nil {
		return ByteRange{}, err
	}

	var end int64
	if before == beforeRef.End {
		info, err := os.Stat(archivePath)
		if err != nil {
			return ByteRange{}, fmt.Errorf("failed to stat archive: %w", err)
		}
		end = info.Size()
	} else {
		beforeTable, err := e.loadTable(beforeRef)
		if err != nil {
			return ByteRange{}, err
		}
		end, err = beforeTable.OffsetAt(before + 1)
		if err != nil {
			return ByteRange{}, err
		}
	}

	if end < start {
		return ByteRange{}, fmt.Errorf("%w: resolved range inverted [%d, %d)", index.ErrCorrupted, start, end)
	}

	metrics.RangeLookupDuration.Observe(time.Since(started).Seconds())
	return ByteRange{Start: start, End: end}, nil
}

// OpenRange opens the archive restricted to br. The caller owns the returned
// ReadCloser.
func (e *Engine) OpenRange(archivePath string, br ByteRange) (io.ReadCloser, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return &rangeReader{SectionReader: io.NewSectionReader(f, br.Start, br.Len()), file: f}, nil
}

// View resolves a textual window and streams the byte range verbatim to w,
// returning how many bytes went out.
func (e *Engine) View(archivePath, afterText, beforeText string, w io.Writer) (int64, error) {
	afterTs, err := parser.ParseTimestamp(afterText)
	if err != nil {
		return 0, err
	}
	beforeTs, err := parser.ParseTimestamp(beforeText)
	if err != nil {
		return 0, err
	}

	br, err := e.Resolve(archivePath, afterTs.Unix(), beforeTs.Unix())
	if err != nil {
		return 0, err
	}

	rc, err := e.OpenRange(archivePath, br)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	n, err := io.Copy(w, rc)
	if err != nil {
		return n, fmt.Errorf("failed to stream range: %w", err)
	}
	metrics.RangeBytesStreamed.Add(float64(n))
	log.Debug().Str("archive", archivePath).Int64("start", br.Start).Int64("end", br.End).Int64("bytes", n).Msg("Streamed range")
	return n, nil
}

func findShard(shards []index.ShardRef, epoch int64) (index.ShardRef, bool) {
	for _, ref := range shards {
		if ref.Contains(epoch) {
			return ref, true
		}
	}
	return index.ShardRef{}, false
}

type rangeReader struct {
	*io.SectionReader
	file *os.File
}

func (r *rangeReader) Close() error {
	return r.file.Close()
}

package query_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logvault/internal/aggregator"
	"logvault/internal/index"
	"logvault/internal/model"
	"logvault/internal/parser"
	"logvault/internal/query"
)

var (
	first       = "I, [2025-11-05T10:00:00.000000 #1]  INFO -- : request handled\n"
	second      = "E, [2025-11-05T10:00:05.000000 #2] ERROR -- : worker crashed\n  backtrace line\n"
	interleaved = "W, [2025-11-05T10:00:02.000000 #3]  WARN -- : queue depth rising\n"
	later       = "I, [2025-11-05T10:00:09.000000 #3]  INFO -- : worker recovered\n"
)

// buildArchive combines two single-entry sources into an indexed archive and
// returns its path.
func buildArchive(t *testing.T) string {
	t.Helper()
	srcDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "web-1.log"), []byte(first), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "web-2.log"), []byte(second), 0o644))

	agg := aggregator.New(parser.NewMarkerExtractor(), aggregator.Config{DateStamp: "2025-11-05"})
	result, err := agg.Aggregate(filepath.Join(srcDir, "*.log"), filepath.Join(outDir, "combined.log"), model.ScopeAll, true, true, false)
	require.NoError(t, err)
	require.True(t, result.Wrote)
	require.NotEmpty(t, result.IndexPath)
	return result.ArchivePath
}

func newTestEngine(t *testing.T) *query.Engine {
	t.Helper()
	engine, err := query.NewEngine(4)
	require.NoError(t, err)
	return engine
}

func TestEngine_View(t *testing.T) {
	archive := buildArchive(t)
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		after    string
		before   string
		expected string
	}{
		{
			name:     "Full Window Returns Both Entries",
			after:    "2025-11-05T10:00:00",
			before:   "2025-11-05T10:00:05",
			expected: first + second,
		},
		{
			name:     "Window Over Empty Seconds Is Empty",
			after:    "2025-11-05T10:00:01",
			before:   "2025-11-05T10:00:04",
			expected: "",
		},
		{
			name:     "Exact Second Round Trips One Entry",
			after:    "2025-11-05T10:00:00",
			before:   "2025-11-05T10:00:00",
			expected: first,
		},
		{
			name:     "Final Second Clamps To Archive End",
			after:    "2025-11-05T10:00:05",
			before:   "2025-11-05T10:00:05",
			expected: second,
		},
		{
			name:     "Fractional Query Text Accepted",
			after:    "2025-11-05T10:00:00.999999",
			before:   "2025-11-05T10:00:00.000001",
			expected: first,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			n, err := engine.View(archive, tt.after, tt.before, &out)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.String())
			assert.Equal(t, int64(len(tt.expected)), n)
		})
	}
}

func TestEngine_View_Errors(t *testing.T) {
	archive := buildArchive(t)
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		after    string
		before   string
		expected error
	}{
		{
			name:     "Window Before All Shards",
			after:    "2025-11-05T09:00:00",
			before:   "2025-11-05T09:00:01",
			expected: index.ErrNotFound,
		},
		{
			name:     "Window After All Shards",
			after:    "2025-11-05T11:00:00",
			before:   "2025-11-05T11:00:01",
			expected: index.ErrNotFound,
		},
		{
			name:     "Malformed After",
			after:    "not-a-timestamp",
			before:   "2025-11-05T10:00:05",
			expected: parser.ErrMalformedTimestamp,
		},
		{
			name:     "Malformed Before",
			after:    "2025-11-05T10:00:00",
			before:   "05.11.2025 10:00",
			expected: parser.ErrMalformedTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			_, err := engine.View(archive, tt.after, tt.before, &out)

			assert.ErrorIs(t, err, tt.expected)
			assert.Zero(t, out.Len())
		})
	}
}

func TestEngine_View_InvertedWindow(t *testing.T) {
	archive := buildArchive(t)
	engine := newTestEngine(t)

	var out bytes.Buffer
	_, err := engine.View(archive, "2025-11-05T10:00:05", "2025-11-05T10:00:00", &out)
	assert.Error(t, err)
}

func TestEngine_View_NoIndex(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bare.log")
	require.NoError(t, os.WriteFile(archive, []byte("entry bytes without any index"), 0o644))

	engine := newTestEngine(t)

	var out bytes.Buffer
	_, err := engine.View(archive, "2025-11-05T10:00:00", "2025-11-05T10:00:05", &out)
	assert.ErrorIs(t, err, index.ErrNotFound)
}

func TestEngine_View_AfterForcedRebuild(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "web-1.log"), []byte(first+second), 0o644))

	agg := aggregator.New(parser.NewMarkerExtractor(), aggregator.Config{DateStamp: "2025-11-05"})
	pattern := filepath.Join(srcDir, "*.log")
	template := filepath.Join(outDir, "combined.log")
	_, err := agg.Aggregate(pattern, template, model.ScopeAll, true, true, false)
	require.NoError(t, err)

	// A second source interleaves a new entry and extends the covered range.
	// The forced rebuild must leave only its own shard behind, so exact-second
	// views hit the new archive layout, not the old one.
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "web-2.log"), []byte(interleaved+later), 0o644))
	result, err := agg.Aggregate(pattern, template, model.ScopeAll, true, true, false)
	require.NoError(t, err)

	shards, err := index.Discover(result.ArchivePath)
	require.NoError(t, err)
	require.Len(t, shards, 1)
	assert.Equal(t, result.IndexPath, shards[0].Path)

	engine := newTestEngine(t)

	var out bytes.Buffer
	_, err = engine.View(result.ArchivePath, "2025-11-05T10:00:05", "2025-11-05T10:00:05", &out)
	require.NoError(t, err)
	assert.Equal(t, second, out.String())

	out.Reset()
	_, err = engine.View(result.ArchivePath, "2025-11-05T10:00:09", "2025-11-05T10:00:09", &out)
	require.NoError(t, err)
	assert.Equal(t, later, out.String())
}

func TestEngine_Resolve_CachesShards(t *testing.T) {
	archive := buildArchive(t)
	engine := newTestEngine(t)

	br, err := engine.Resolve(archive, epoch(t, "2025-11-05T10:00:00"), epoch(t, "2025-11-05T10:00:05"))
	require.NoError(t, err)

	shards, err := index.Discover(archive)
	require.NoError(t, err)
	require.Len(t, shards, 1)
	info, err := os.Stat(shards[0].Path)
	require.NoError(t, err)

	// Fill the shard with same-size garbage and restore its mtime. The file
	// looks untouched, so the cached table must answer; a reload would decode
	// nonsense offsets and fail.
	garbage := bytes.Repeat([]byte{0xFF}, int(info.Size()))
	require.NoError(t, os.WriteFile(shards[0].Path, garbage, 0o644))
	require.NoError(t, os.Chtimes(shards[0].Path, info.ModTime(), info.ModTime()))

	cached, err := engine.Resolve(archive, epoch(t, "2025-11-05T10:00:00"), epoch(t, "2025-11-05T10:00:05"))
	require.NoError(t, err)
	assert.Equal(t, br, cached)
}

func TestEngine_Resolve_ReloadsRewrittenShard(t *testing.T) {
	archive := buildArchive(t)
	engine := newTestEngine(t)

	br, err := engine.Resolve(archive, epoch(t, "2025-11-05T10:00:00"), epoch(t, "2025-11-05T10:00:00"))
	require.NoError(t, err)
	require.Equal(t, int64(len(first)), br.End)

	shards, err := index.Discover(archive)
	require.NoError(t, err)
	require.Len(t, shards, 1)

	// Rewrite one slot in place and move the mtime forward. The engine must
	// notice the changed file and reload instead of serving the cached copy.
	data, err := os.ReadFile(shards[0].Path)
	require.NoError(t, err)
	binary.BigEndian.PutUint64(data[index.SlotSize:], uint64(len(first)-10))
	require.NoError(t, os.WriteFile(shards[0].Path, data, 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(shards[0].Path, future, future))

	again, err := engine.Resolve(archive, epoch(t, "2025-11-05T10:00:00"), epoch(t, "2025-11-05T10:00:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(len(first)-10), again.End)
}

func epoch(t *testing.T, text string) int64 {
	t.Helper()
	ts, err := parser.ParseTimestamp(text)
	require.NoError(t, err)
	return ts.Unix()
}

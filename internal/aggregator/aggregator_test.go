package aggregator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logvault/internal/aggregator"
	"logvault/internal/index"
	"logvault/internal/model"
	"logvault/internal/parser"
)

const testStamp = "2025-11-05"

var (
	alpha = "I, [2025-11-05T10:00:00.000000 #1]  INFO -- : alpha\n"
	beta  = "E, [2025-11-05T10:00:02.000000 #2] ERROR -- : beta\n  trace detail\n"
	delta = "W, [2025-11-05T10:00:04.000000 #1]  WARN -- : delta\n"
	omega = "I, [2025-11-05T10:00:09.000000 #3]  INFO -- : omega\n"
)

func newTestAggregator() *aggregator.Aggregator {
	return aggregator.New(parser.NewMarkerExtractor(), aggregator.Config{DateStamp: testStamp})
}

func TestAggregator_ListFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, filepath.Join(dir, "app-2025-11-05.log"), alpha)
	writeSource(t, filepath.Join(dir, "app-2025-11-04.log"), beta)
	writeSource(t, filepath.Join(dir, "app-2025-11-03.log"), delta)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.log"), 0o755))

	agg := newTestAggregator()
	pattern := filepath.Join(dir, "*.log")

	tests := []struct {
		name     string
		scope    model.Scope
		expected []string
	}{
		{
			name:     "All Keeps Everything",
			scope:    model.ScopeAll,
			expected: []string{"app-2025-11-03.log", "app-2025-11-04.log", "app-2025-11-05.log"},
		},
		{
			name:     "Current Keeps Stamped",
			scope:    model.ScopeCurrent,
			expected: []string{"app-2025-11-05.log"},
		},
		{
			name:     "Past Drops Stamped",
			scope:    model.ScopePast,
			expected: []string{"app-2025-11-03.log", "app-2025-11-04.log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := agg.ListFiles(pattern, tt.scope)
			require.NoError(t, err)

			names := make([]string, len(files))
			for i, f := range files {
				names[i] = filepath.Base(f)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestAggregator_ListFiles_BadPattern(t *testing.T) {
	agg := newTestAggregator()

	_, err := agg.ListFiles("[", model.ScopeAll)
	assert.Error(t, err)
}

func TestAggregator_Read(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.log")
	fileB := filepath.Join(dir, "b.log")
	writeSource(t, fileA, alpha+delta)
	writeSource(t, fileB, beta)

	agg := newTestAggregator()

	entries, err := agg.Read([]string{fileA, fileB})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Entries arrive in listing order, unsorted across files.
	assert.Equal(t, fileA, entries[0].Source)
	assert.Equal(t, fileA, entries[1].Source)
	assert.Equal(t, fileB, entries[2].Source)
}

func TestAggregator_Read_MissingSource(t *testing.T) {
	agg := newTestAggregator()

	_, err := agg.Read([]string{filepath.Join(t.TempDir(), "vanished.log")})
	assert.ErrorIs(t, err, aggregator.ErrSourceUnreadable)
}

func TestAggregator_Write_SortsAndConcatenates(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.log")
	fileB := filepath.Join(dir, "b.log")
	writeSource(t, fileA, alpha+delta)
	writeSource(t, fileB, beta)

	agg := newTestAggregator()
	entries, err := agg.Read([]string{fileA, fileB})
	require.NoError(t, err)

	outPath := filepath.Join(dir, "combined.log")
	result, err := agg.Write(entries, outPath, true, true)
	require.NoError(t, err)

	assert.True(t, result.Wrote)
	assert.Equal(t, 3, result.EntryCount)

	expected := alpha + beta + delta
	archive, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, expected, string(archive))
	assert.Equal(t, int64(len(expected)), result.BytesWritten)

	// Entries span seconds 0, 2 and 4 of the covered range; the empty
	// seconds forward-fill to the next entry's offset.
	require.NotEmpty(t, result.IndexPath)
	ref, ok := index.ParseShardPath(result.IndexPath)
	require.True(t, ok)
	table, err := index.Load(ref)
	require.NoError(t, err)

	la := uint64(len(alpha))
	lb := uint64(len(beta))
	assert.Equal(t, []uint64{0, la, la, la + lb, la + lb}, table.Offsets)
}

func TestAggregator_Write_RefusesWithoutForce(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.log")
	writeSource(t, fileA, alpha)

	agg := newTestAggregator()
	entries, err := agg.Read([]string{fileA})
	require.NoError(t, err)

	outPath := filepath.Join(dir, "combined.log")
	writeSource(t, outPath, "untouchable prior archive")

	result, err := agg.Write(entries, outPath, false, true)
	require.NoError(t, err)
	assert.False(t, result.Wrote)
	assert.Empty(t, result.IndexPath)

	archive, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "untouchable prior archive", string(archive))

	shards, err := index.Discover(outPath)
	require.NoError(t, err)
	assert.Empty(t, shards)

	// The same call with force replaces the archive.
	result, err = agg.Write(entries, outPath, true, true)
	require.NoError(t, err)
	assert.True(t, result.Wrote)

	archive, err = os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, alpha, string(archive))
}

func TestAggregator_Write_ForceSweepsStaleShards(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "a.log")
	writeSource(t, fileA, alpha+delta)

	agg := newTestAggregator()
	entries, err := agg.Read([]string{fileA})
	require.NoError(t, err)

	outPath := filepath.Join(dir, "combined.log")
	first, err := agg.Write(entries, outPath, true, true)
	require.NoError(t, err)
	require.NotEmpty(t, first.IndexPath)

	// A later source extends the covered range, so the rebuild's shard gets
	// a new name; the old shard must not survive to shadow it.
	fileB := filepath.Join(dir, "b.log")
	writeSource(t, fileB, omega)
	entries, err = agg.Read([]string{fileA, fileB})
	require.NoError(t, err)

	second, err := agg.Write(entries, outPath, true, true)
	require.NoError(t, err)
	require.NotEqual(t, first.IndexPath, second.IndexPath)
	assert.NoFileExists(t, first.IndexPath)

	shards, err := index.Discover(outPath)
	require.NoError(t, err)
	require.Len(t, shards, 1)
	assert.Equal(t, second.IndexPath, shards[0].Path)
}

func TestAggregator_Write_EmptyEntries(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "combined.log")

	agg := newTestAggregator()
	result, err := agg.Write(nil, outPath, true, true)
	require.NoError(t, err)

	// The archive is created empty and indexing is skipped outright.
	assert.True(t, result.Wrote)
	assert.Empty(t, result.IndexPath)

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	shards, err := index.Discover(outPath)
	require.NoError(t, err)
	assert.Empty(t, shards)
}

func TestAggregator_Aggregate_EndToEnd(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	writeSource(t, filepath.Join(srcDir, "web-1.log"), alpha+delta)
	writeSource(t, filepath.Join(srcDir, "web-2.log"), beta)

	agg := newTestAggregator()
	pattern := filepath.Join(srcDir, "*.log")
	template := filepath.Join(outDir, "combined-{date}.log")

	result, err := agg.Aggregate(pattern, template, model.ScopeAll, true, true, false)
	require.NoError(t, err)

	expectedPath := filepath.Join(outDir, "combined-"+testStamp+".log")
	assert.Equal(t, expectedPath, result.ArchivePath)
	assert.True(t, result.Wrote)
	assert.Equal(t, 2, result.SourceCount)
	assert.Equal(t, 3, result.EntryCount)

	archive, err := os.ReadFile(expectedPath)
	require.NoError(t, err)
	assert.Equal(t, alpha+beta+delta, string(archive))

	// A second run without force must leave the first archive untouched and
	// report that nothing was written.
	again, err := agg.Aggregate(pattern, template, model.ScopeAll, false, true, false)
	require.NoError(t, err)
	assert.False(t, again.Wrote)

	archive, err = os.ReadFile(expectedPath)
	require.NoError(t, err)
	assert.Equal(t, alpha+beta+delta, string(archive))
}

func TestAggregator_Aggregate_Cleanup(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	contributing := filepath.Join(srcDir, "web-1.log")
	barren := filepath.Join(srcDir, "notes.log")
	writeSource(t, contributing, alpha)
	writeSource(t, barren, "no markers in here\n")

	agg := newTestAggregator()

	result, err := agg.Aggregate(filepath.Join(srcDir, "*.log"), filepath.Join(outDir, "combined.log"), model.ScopeAll, true, true, true)
	require.NoError(t, err)
	require.True(t, result.Wrote)
	assert.Equal(t, 2, result.SourceCount)

	// Every listed file goes, contributing or not.
	assert.NoFileExists(t, contributing)
	assert.NoFileExists(t, barren)
}

func writeSource(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

package index

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var shardNamePattern = regexp.MustCompile(`\.index-(\d+)-(\d+)\.dat$`)

// ShardRef identifies one index shard on disk and the inclusive epoch-second
// range its slots cover, without loading the slots themselves.
type ShardRef struct {
	Path  string
	Start int64
	End   int64
}

// ShardPath returns the shard filename for an archive and epoch range.
func ShardPath(archivePath string, startEpoch, endEpoch int64) string {
	return fmt.Sprintf("%s.index-%d-%d.dat", archivePath, startEpoch, endEpoch)
}

// ParseShardPath extracts the epoch range encoded in a shard filename.
func ParseShardPath(path string) (ShardRef, bool) {
	m := shardNamePattern.FindStringSubmatch(path)
	if m == nil {
		return ShardRef{}, false
	}
	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ShardRef{}, false
	}
	end, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || end < start {
		return ShardRef{}, false
	}
	return ShardRef{Path: path, Start: start, End: end}, true
}

// Contains reports whether epoch falls inside the shard's covered range.
func (r ShardRef) Contains(epoch int64) bool {
	return epoch >= r.Start && epoch <= r.End
}

// Seconds returns the number of slots the shard holds.
func (r ShardRef) Seconds() int64 {
	return r.End - r.Start + 1
}

// Discover lists the index shards belonging to the archive at archivePath, in
// lexical filename order. Files carrying the prefix but not the full name
// pattern are ignored.
func Discover(archivePath string) ([]ShardRef, error) {
	dir := filepath.Dir(archivePath)
	prefix := filepath.Base(archivePath) + ".index-"

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list index directory: %w", err)
	}

	var refs []ShardRef
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasPrefix(de.Name(), prefix) {
			continue
		}
		if ref, ok := ParseShardPath(filepath.Join(dir, de.Name())); ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

package index

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// SlotSize is the on-disk width of one per-second offset slot.
const SlotSize = 8

var ErrNonMonotonic = errors.New("timestamps not in ascending order")

// Builder accumulates one archive byte offset per second while the archive is
// written. A second with no entries inherits the offset of the next entry
// written, so every slot resolves to a valid read boundary; that forward-fill
// is what lets queries into quiet periods return an empty range instead of
// failing.
type Builder struct {
	start   int64
	end     int64
	offsets []uint64
}

// NewBuilder starts a map whose slot 0 is startEpoch, the second of the first
// entry that will be written.
func NewBuilder(startEpoch int64) *Builder {
	return &Builder{start: startEpoch}
}

// Advance records that the entry stamped epochSeconds is about to be written
// at writeOffset. Entries must arrive in non-decreasing timestamp order; the
// slot array only ever grows and only the first entry of a second sets its
// slot.
func (b *Builder) Advance(epochSeconds, writeOffset int64) error {
	elapsed := epochSeconds - b.start
	if elapsed < b.end {
		return fmt.Errorf("%w: epoch %d arrived after %d", ErrNonMonotonic, epochSeconds, b.start+b.end)
	}
	for int64(len(b.offsets)) <= elapsed {
		b.offsets = append(b.offsets, uint64(writeOffset))
	}
	b.end = elapsed
	return nil
}

// Slots returns how many seconds the map covers so far.
func (b *Builder) Slots() int {
	return len(b.offsets)
}

// Dump persists the map next to the archive at basePath, replacing any shard
// of the same name, and returns the shard path. The filename encodes the
// covered epoch range so readers can pick the right shard by containment.
func (b *Builder) Dump(basePath string) (string, error) {
	if len(b.offsets) == 0 {
		return "", errors.New("no entries were indexed")
	}

	path := ShardPath(basePath, b.start, b.start+b.end)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create index shard: %w", err)
	}

	w := bufio.NewWriter(f)
	var slot [SlotSize]byte
	for _, offset := range b.offsets {
		binary.BigEndian.PutUint64(slot[:], offset)
		if _, err := w.Write(slot[:]); err != nil {
			f.Close()
			return "", fmt.Errorf("failed to write index shard: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to flush index shard: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close index shard: %w", err)
	}

	return path, nil
}

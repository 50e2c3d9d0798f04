package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

var (
	ErrNotFound  = errors.New("no index covers the requested time")
	ErrCorrupted = errors.New("index shard corrupted")
)

// Table is one fully loaded shard: an archive byte offset per second of the
// covered range. Offsets are non-decreasing because the archive is written in
// timestamp order.
type Table struct {
	Ref     ShardRef
	Offsets []uint64
}

// Load reads a shard file into memory, verifying that its size is whole slots
// and matches the range encoded in its name.
func Load(ref ShardRef) (*Table, error) {
	data, err := os.ReadFile(ref.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref.Path)
		}
		return nil, fmt.Errorf("failed to read index shard: %w", err)
	}

	if len(data)%SlotSize != 0 {
		return nil, fmt.Errorf("%w: %s holds a partial slot", ErrCorrupted, ref.Path)
	}
	slots := len(data) / SlotSize
	if int64(slots) != ref.Seconds() {
		return nil, fmt.Errorf("%w: %s holds %d slots, name promises %d", ErrCorrupted, ref.Path, slots, ref.Seconds())
	}

	offsets := make([]uint64, slots)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint64(data[i*SlotSize:])
	}
	return &Table{Ref: ref, Offsets: offsets}, nil
}

// OffsetAt returns the archive offset where reading begins for epoch.
func (t *Table) OffsetAt(epoch int64) (int64, error) {
	slot := epoch - t.Ref.Start
	if slot < 0 || slot >= int64(len(t.Offsets)) {
		return 0, fmt.Errorf("%w: epoch %d outside shard %s", ErrNotFound, epoch, t.Ref.Path)
	}
	return int64(t.Offsets[slot]), nil
}

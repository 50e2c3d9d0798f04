package store

import (
	"sync"

	"logvault/internal/manifest"
)

// RunHistory keeps the most recent aggregation runs of this process in
// memory. The manifest on disk survives restarts; this history does not.
type RunHistory interface {
	Append(record manifest.RunRecord)
	Recent(limit int) []manifest.RunRecord
}

type inMemoryRunHistory struct {
	records []manifest.RunRecord
	max     int
	mu      sync.RWMutex
}

// NewInMemoryRunHistory returns a history holding the newest max records.
func NewInMemoryRunHistory(max int) RunHistory {
	if max <= 0 {
		max = 32
	}
	return &inMemoryRunHistory{max: max}
}

func (h *inMemoryRunHistory) Append(record manifest.RunRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, record)
	if len(h.records) > h.max {
		h.records = h.records[len(h.records)-h.max:]
	}
}

// Recent returns up to limit records, newest first. A limit of zero or less
// returns everything held.
func (h *inMemoryRunHistory) Recent(limit int) []manifest.RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.records)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]manifest.RunRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, h.records[i])
	}
	return out
}

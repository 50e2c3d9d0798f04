package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SourcesListed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logvault_sources_listed_total",
		Help: "Source files kept after glob expansion and scope filtering, by scope.",
	}, []string{"scope"})

	EntriesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logvault_entries_extracted_total",
		Help: "Log entries extracted from source files.",
	})

	ArchiveBytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logvault_archive_bytes_written_total",
		Help: "Bytes copied into archives.",
	})

	IndexSlotsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logvault_index_slots_written_total",
		Help: "Per-second slots persisted to index shards.",
	})

	AggregationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logvault_aggregation_runs_total",
		Help: "Aggregation passes, by outcome.",
	}, []string{"result"})

	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "logvault_aggregation_duration_seconds",
		Help:    "Wall time of complete aggregation passes.",
		Buckets: prometheus.DefBuckets,
	})

	RangeLookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "logvault_range_lookup_duration_seconds",
		Help:    "Time to resolve a timestamp window to an archive byte range.",
		Buckets: prometheus.DefBuckets,
	})

	RangeBytesStreamed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logvault_range_bytes_streamed_total",
		Help: "Bytes streamed out of archives by range queries.",
	})
)

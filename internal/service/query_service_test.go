package service_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logvault/config"
	"logvault/internal/aggregator"
	"logvault/internal/index"
	"logvault/internal/manifest"
	"logvault/internal/parser"
	"logvault/internal/query"
	"logvault/internal/service"
)

func TestQueryService_ResolveRangeValidation(t *testing.T) {
	_, cfg := newAggregationService(t)
	svc := newQueryService(t, cfg)

	tests := []struct {
		name    string
		after   string
		before  string
		wantErr error
	}{
		{
			name:   "Missing After",
			after:  "",
			before: "2025-11-05T09:00:00",
		},
		{
			name:    "Malformed After",
			after:   "not-a-time",
			before:  "2025-11-05T09:00:00",
			wantErr: parser.ErrMalformedTimestamp,
		},
		{
			name:    "Inverted Window",
			after:   "2025-11-05T09:00:05",
			before:  "2025-11-05T09:00:00",
			wantErr: service.ErrInvalidWindow,
		},
		{
			name:    "No Index On Disk",
			after:   "2025-11-05T09:00:00",
			before:  "2025-11-05T09:00:00",
			wantErr: index.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ResolveRange(tt.after, tt.before)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestQueryService_ResolveAndOpenRange(t *testing.T) {
	aggSvc, cfg := newAggregationService(t)
	svc := newQueryService(t, cfg)

	_, err := aggSvc.RunAggregation(aggSvc.DefaultRequest())
	require.NoError(t, err)

	br, err := svc.ResolveRange("2025-11-05T09:00:00", "2025-11-05T09:00:00")
	require.NoError(t, err)
	assert.Equal(t, int64(len(sampleEntry)), br.Len())

	rc, err := svc.OpenRange(br)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleEntry, string(data))
}

func newQueryService(t *testing.T, cfg *config.Config) service.QueryService {
	t.Helper()

	agg := aggregator.New(parser.NewMarkerExtractor(), aggregator.Config{
		DateStamp:       cfg.Aggregator.DateStamp,
		ReadConcurrency: cfg.Aggregator.ReadConcurrency,
	})
	engine, err := query.NewEngine(cfg.Query.ShardCacheSize)
	require.NoError(t, err)
	return service.NewQueryService(cfg, agg, engine, manifest.NewManager(cfg.Manifest.FilePath))
}

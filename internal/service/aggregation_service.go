package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"logvault/config"
	"logvault/internal/aggregator"
	"logvault/internal/dto"
	"logvault/internal/manifest"
	"logvault/internal/metrics"
	"logvault/internal/model"
	"logvault/internal/store"
)

var ErrRunInProgress = errors.New("an aggregation run is already in progress")

type AggregationService interface {
	RunAggregation(req dto.AggregateRequest) (*dto.AggregateResult, error)
	DefaultRequest() dto.AggregateRequest
	LastRun() (*manifest.RunRecord, error)
	RecentRuns(limit int) []manifest.RunRecord
}

type aggregationService struct {
	agg      *aggregator.Aggregator
	cfg      *config.AggregatorConfig
	stateMgr manifest.Manager
	history  store.RunHistory
	runLock  sync.Mutex
}

func NewAggregationService(cfg *config.Config, agg *aggregator.Aggregator, stateMgr manifest.Manager, history store.RunHistory) AggregationService {
	return &aggregationService{
		agg:      agg,
		cfg:      &cfg.Aggregator,
		stateMgr: stateMgr,
		history:  history,
	}
}

// DefaultRequest builds the run the scheduler and the trigger endpoint
// execute, straight from configuration.
func (s *aggregationService) DefaultRequest() dto.AggregateRequest {
	return dto.AggregateRequest{
		Pattern:        s.cfg.Pattern,
		OutputTemplate: s.cfg.OutputTemplate,
		Scope:          s.cfg.Scope,
		Force:          s.cfg.Force,
		BuildIndex:     s.cfg.BuildIndex,
		Cleanup:        s.cfg.Cleanup,
	}
}

// RunAggregation executes one aggregation pass and records it in the
// manifest. Only one run may be in flight at a time; concurrent callers get
// ErrRunInProgress instead of queueing.
func (s *aggregationService) RunAggregation(req dto.AggregateRequest) (*dto.AggregateResult, error) {
	if !s.runLock.TryLock() {
		log.Warn().Msg("Aggregation already in progress, skipping run.")
		return nil, ErrRunInProgress
	}
	defer s.runLock.Unlock()

	scope, err := model.ParseScope(req.Scope)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	log.Info().
		Str("run_id", runID).
		Str("pattern", req.Pattern).
		Str("scope", scope.String()).
		Bool("force", req.Force).
		Bool("cleanup", req.Cleanup).
		Msg("Starting aggregation run")

	result, err := s.agg.Aggregate(req.Pattern, req.OutputTemplate, scope, req.Force, req.BuildIndex, req.Cleanup)
	if err != nil {
		metrics.AggregationRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("aggregation run %s failed: %w", runID, err)
	}

	outcome := "written"
	if !result.Wrote {
		outcome = "skipped"
	}
	metrics.AggregationRuns.WithLabelValues(outcome).Inc()

	record := &manifest.RunRecord{
		RunID:        runID,
		StartedAt:    startedAt,
		FinishedAt:   time.Now().UTC(),
		Pattern:      result.Pattern,
		Scope:        result.Scope.String(),
		Wrote:        result.Wrote,
		ArchivePath:  result.ArchivePath,
		IndexPath:    result.IndexPath,
		SourceCount:  result.SourceCount,
		EntryCount:   result.EntryCount,
		BytesWritten: result.BytesWritten,
	}
	if err := s.stateMgr.SaveLastRun(record); err != nil {
		log.Error().Err(err).Str("run_id", runID).Msg("Failed to record run in manifest")
		return nil, fmt.Errorf("failed to record run %s: %w", runID, err)
	}
	s.history.Append(*record)

	log.Info().
		Str("run_id", runID).
		Bool("wrote", result.Wrote).
		Int("entries", result.EntryCount).
		Dur("duration", result.Duration).
		Msg("Finished aggregation run")

	return &dto.AggregateResult{
		RunID:        runID,
		Wrote:        result.Wrote,
		ArchivePath:  result.ArchivePath,
		IndexPath:    result.IndexPath,
		Pattern:      result.Pattern,
		Scope:        result.Scope.String(),
		SourceCount:  result.SourceCount,
		EntryCount:   result.EntryCount,
		BytesWritten: result.BytesWritten,
		DurationMs:   result.Duration.Milliseconds(),
	}, nil
}

func (s *aggregationService) LastRun() (*manifest.RunRecord, error) {
	return s.stateMgr.LoadLastRun()
}

func (s *aggregationService) RecentRuns(limit int) []manifest.RunRecord {
	return s.history.Recent(limit)
}

package service

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"logvault/config"
	"logvault/internal/aggregator"
	"logvault/internal/dto"
	"logvault/internal/index"
	"logvault/internal/manifest"
	"logvault/internal/parser"
	"logvault/internal/query"
)

var ErrInvalidWindow = errors.New("before cannot precede after")

type QueryService interface {
	ResolveRange(afterText, beforeText string) (query.ByteRange, error)
	OpenRange(br query.ByteRange) (io.ReadCloser, error)
	Status() (*dto.StatusResponse, error)
}

type queryService struct {
	engine   *query.Engine
	agg      *aggregator.Aggregator
	cfg      *config.AggregatorConfig
	stateMgr manifest.Manager
}

func NewQueryService(cfg *config.Config, agg *aggregator.Aggregator, engine *query.Engine, stateMgr manifest.Manager) QueryService {
	return &queryService{
		engine:   engine,
		agg:      agg,
		cfg:      &cfg.Aggregator,
		stateMgr: stateMgr,
	}
}

// archivePath points range queries at the same archive the configured
// aggregation runs produce.
func (s *queryService) archivePath() string {
	return s.agg.ResolveOutputPath(s.cfg.OutputTemplate)
}

func (s *queryService) ResolveRange(afterText, beforeText string) (query.ByteRange, error) {
	if afterText == "" || beforeText == "" {
		return query.ByteRange{}, errors.New("after and before are required")
	}

	after, err := parser.ParseTimestamp(afterText)
	if err != nil {
		return query.ByteRange{}, err
	}
	before, err := parser.ParseTimestamp(beforeText)
	if err != nil {
		return query.ByteRange{}, err
	}
	if before.Before(after) {
		return query.ByteRange{}, ErrInvalidWindow
	}

	log.Info().
		Str("archive", s.archivePath()).
		Str("after", afterText).
		Str("before", beforeText).
		Msg("Resolving range query")

	return s.engine.Resolve(s.archivePath(), after.Unix(), before.Unix())
}

func (s *queryService) OpenRange(br query.ByteRange) (io.ReadCloser, error) {
	return s.engine.OpenRange(s.archivePath(), br)
}

// Status reports the queryable archive, its index shards and the most recent
// aggregation run.
func (s *queryService) Status() (*dto.StatusResponse, error) {
	path := s.archivePath()

	status := &dto.StatusResponse{ArchivePath: path}
	if info, err := os.Stat(path); err == nil {
		status.ArchiveBytes = info.Size()
	}

	shards, err := index.Discover(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		shards = nil
	}
	for _, ref := range shards {
		status.Shards = append(status.Shards, dto.ShardInfo{
			Path:       ref.Path,
			StartEpoch: ref.Start,
			EndEpoch:   ref.End,
			Seconds:    ref.Seconds(),
		})
	}

	lastRun, err := s.stateMgr.LoadLastRun()
	if err != nil {
		return nil, err
	}
	status.LastRun = lastRun

	return status, nil
}

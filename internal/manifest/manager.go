package manifest

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RunRecord is the persisted outcome of the most recent aggregation run.
type RunRecord struct {
	RunID        string    `json:"run_id"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Pattern      string    `json:"pattern"`
	Scope        string    `json:"scope"`
	Wrote        bool      `json:"wrote"`
	ArchivePath  string    `json:"archive_path"`
	IndexPath    string    `json:"index_path,omitempty"`
	SourceCount  int       `json:"source_count"`
	EntryCount   int       `json:"entry_count"`
	BytesWritten int64     `json:"bytes_written"`
}

type Manager interface {
	LoadLastRun() (*RunRecord, error)
	SaveLastRun(record *RunRecord) error
	GetManifestPath() string
}

type fileManifestManager struct {
	filePath string
	mu       sync.RWMutex
}

// NewManager returns the JSON-file manager, or a no-op manager when the path
// is empty (manifest disabled).
func NewManager(filePath string) Manager {
	if filePath == "" {
		return noopManager{}
	}
	return &fileManifestManager{
		filePath: filePath,
	}
}

type noopManager struct{}

func (noopManager) LoadLastRun() (*RunRecord, error)    { return nil, nil }
func (noopManager) SaveLastRun(record *RunRecord) error { return nil }
func (noopManager) GetManifestPath() string             { return "" }

func (m *fileManifestManager) LoadLastRun() (*RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("file", m.filePath).Msg("Manifest not found, no run recorded yet")
			return nil, nil
		}
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to read manifest")
		return nil, err
	}

	if len(data) == 0 {
		log.Warn().Str("file", m.filePath).Msg("Manifest is empty, treating as no run recorded")
		return nil, nil
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		log.Error().Err(err).Str("file", m.filePath).Msg("Failed to unmarshal manifest")
		return nil, err
	}

	log.Debug().Str("file", m.filePath).Str("run_id", record.RunID).Msg("Loaded manifest")
	return &record, nil
}

func (m *fileManifestManager) SaveLastRun(record *RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal manifest")
		return err
	}

	// Write-then-rename keeps the manifest whole even if the process dies
	// mid-save.
	tempFilePath := m.filePath + ".tmp"
	err = os.WriteFile(tempFilePath, data, 0644)
	if err != nil {
		log.Error().Err(err).Str("file", tempFilePath).Msg("Failed to write temporary manifest")
		return err
	}

	err = os.Rename(tempFilePath, m.filePath)
	if err != nil {
		log.Error().Err(err).Str("from", tempFilePath).Str("to", m.filePath).Msg("Failed to rename manifest")
		_ = os.Remove(tempFilePath)
		return err
	}

	log.Debug().Str("file", m.filePath).Str("run_id", record.RunID).Msg("Saved manifest")
	return nil
}

func (m *fileManifestManager) GetManifestPath() string {
	return m.filePath
}

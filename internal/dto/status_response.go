package dto

import "logvault/internal/manifest"

type ShardInfo struct {
	Path       string `json:"path"`
	StartEpoch int64  `json:"startEpoch"`
	EndEpoch   int64  `json:"endEpoch"`
	Seconds    int64  `json:"seconds"`
}

type StatusResponse struct {
	ArchivePath  string              `json:"archivePath"`
	ArchiveBytes int64               `json:"archiveBytes"`
	Shards       []ShardInfo         `json:"shards"`
	LastRun      *manifest.RunRecord `json:"lastRun,omitempty"`
}

package dto

// AggregateResult is the API shape of one finished aggregation run.
type AggregateResult struct {
	RunID        string `json:"runId"`
	Wrote        bool   `json:"wrote"`
	ArchivePath  string `json:"archivePath"`
	IndexPath    string `json:"indexPath,omitempty"`
	Pattern      string `json:"pattern"`
	Scope        string `json:"scope"`
	SourceCount  int    `json:"sourceCount"`
	EntryCount   int    `json:"entryCount"`
	BytesWritten int64  `json:"bytesWritten"`
	DurationMs   int64  `json:"durationMs"`
}

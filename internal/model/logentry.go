package model

import "time"

// LogEntry locates one log entry inside its source file. Start and End are
// byte offsets into the source, half-open [Start, End); the entry's bytes are
// never copied into memory, only streamed from the source during the write
// pass.
type LogEntry struct {
	Timestamp time.Time
	Start     int64
	End       int64
	Source    string
}

// Size returns the entry's length in bytes.
func (e LogEntry) Size() int64 {
	return e.End - e.Start
}

package parser

import (
	"fmt"
	"regexp"

	"logvault/internal/model"

	"github.com/rs/zerolog/log"
)

// markerPattern matches the head of a log entry: a severity letter, ", [",
// then the bracketed timestamp. Multiline mode anchors the match at line
// starts anywhere in the file, so free-text entry bodies (stack traces,
// dumps) never open a new entry.
var markerPattern = regexp.MustCompile(`(?m)^[A-Z], \[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?`)

// markerTimestampOffset is where the timestamp text begins inside a marker,
// past the severity letter, comma-space and opening bracket.
const markerTimestampOffset = 4

type Extractor interface {
	Extract(data []byte, source string) ([]model.LogEntry, error)
}

type markerExtractor struct {
	pattern *regexp.Regexp
}

func NewMarkerExtractor() Extractor {
	return &markerExtractor{pattern: markerPattern}
}

// Extract splits one source file into entries at marker boundaries. Each
// entry runs from its marker to the next marker, the last to end of file, so
// consecutive entries are gapless. A file with no markers contributes zero
// entries; it is assumed not to be a recognized log format.
func (e *markerExtractor) Extract(data []byte, source string) ([]model.LogEntry, error) {
	matches := e.pattern.FindAllIndex(data, -1)
	if len(matches) == 0 {
		log.Debug().Str("source", source).Msg("No entry markers found, skipping file")
		return nil, nil
	}

	entries := make([]model.LogEntry, 0, len(matches))
	for i, m := range matches {
		start := int64(m[0])
		end := int64(len(data))
		if i+1 < len(matches) {
			end = int64(matches[i+1][0])
		}

		tsStart := m[0] + markerTimestampOffset
		ts, err := ParseTimestamp(string(data[tsStart : tsStart+timestampLen]))
		if err != nil {
			return nil, fmt.Errorf("%s at offset %d: %w", source, start, err)
		}

		entries = append(entries, model.LogEntry{
			Timestamp: ts,
			Start:     start,
			End:       end,
			Source:    source,
		})
	}

	return entries, nil
}

package parser_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logvault/internal/parser"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		expected    time.Time
		expectError bool
	}{
		{
			name:     "Plain Timestamp",
			text:     "2025-11-05T10:00:00",
			expected: time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "Fractional Part Ignored",
			text:     "2025-11-05T10:00:00.123456",
			expected: time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "Midnight Rollover",
			text:     "2024-12-31T23:59:59",
			expected: time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "Month Out Of Range",
			text:        "2025-13-05T10:00:00",
			expectError: true,
		},
		{
			name:        "Non Numeric Field",
			text:        "2025-11-05T10:0x:00",
			expectError: true,
		},
		{
			name:        "Truncated Text",
			text:        "2025-11-05T10",
			expectError: true,
		},
		{
			name:        "Trailing Garbage",
			text:        "2025-11-05T10:00:00garbage",
			expectError: true,
		},
		{
			name:        "Bare Trailing Dot",
			text:        "2025-11-05T10:00:00.",
			expectError: true,
		},
		{
			name:        "Non Numeric Fraction",
			text:        "2025-11-05T10:00:00.12a4",
			expectError: true,
		},
		{
			name:        "Empty Text",
			text:        "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.ParseTimestamp(tt.text)

			if tt.expectError {
				assert.Error(t, err)
				assert.ErrorIs(t, err, parser.ErrMalformedTimestamp)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.expected.Equal(result), "expected %s, got %s", tt.expected, result)
				assert.Equal(t, time.UTC, result.Location())
			}
		})
	}
}

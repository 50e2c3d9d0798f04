package parser

import (
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the marker timestamp form, ISO-8601 without zone or
// fraction. Fractional seconds appearing after it are ignored; the index
// granularity is one second.
const TimestampLayout = "2006-01-02T15:04:05"

// timestampLen is the byte length of a TimestampLayout timestamp.
const timestampLen = len(TimestampLayout)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ParseTimestamp converts timestamp text to a UTC time truncated to whole
// seconds. The fixed-layout prefix supplies the value; a trailing fractional
// part is validated but contributes nothing. Source files carry no zone
// information, so all timestamps are taken as UTC.
func ParseTimestamp(text string) (time.Time, error) {
	if len(text) < timestampLen {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}
	if !validFraction(text[timestampLen:]) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}
	ts, err := time.ParseInLocation(TimestampLayout, text[:timestampLen], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text[:timestampLen])
	}
	return ts, nil
}

// validFraction accepts an empty remainder or a dot followed by one or more
// digits. Anything else after the seconds field is not a fraction.
func validFraction(rest string) bool {
	if rest == "" {
		return true
	}
	if len(rest) < 2 || rest[0] != '.' {
		return false
	}
	for i := 1; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}

package model

import "fmt"

// Scope selects which matched source files an aggregation run considers,
// based on whether the filename contains the current date-stamp.
type Scope string

const (
	// ScopeAll keeps every matched file.
	ScopeAll Scope = "all"
	// ScopeCurrent keeps only files stamped with the current date.
	ScopeCurrent Scope = "current"
	// ScopePast keeps only files not stamped with the current date.
	ScopePast Scope = "past"
)

// ParseScope validates a scope name from config or a CLI flag.
func ParseScope(text string) (Scope, error) {
	switch Scope(text) {
	case ScopeAll, ScopeCurrent, ScopePast:
		return Scope(text), nil
	}
	return "", fmt.Errorf("unknown scope %q (want all, current or past)", text)
}

func (s Scope) String() string {
	return string(s)
}

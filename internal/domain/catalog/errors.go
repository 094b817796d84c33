package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady signals that no catalog has been loaded yet.
	ErrNotReady = errors.New("catalog not ready")
	// ErrNotFound signals an unknown series code.
	ErrNotFound = errors.New("series not found")
	// ErrDuplicateCode signals two records sharing one series code.
	ErrDuplicateCode = errors.New("duplicate series code")
)

// LoadError wraps a failure to load or validate a catalog snapshot. Search
// calls keep failing with ErrNotReady until a load succeeds.
type LoadError struct {
	Op     string // "read", "decode", "validate"
	Detail string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog load (%s): %s: %v", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("catalog load (%s): %s", e.Op, e.Detail)
}

func (e *LoadError) Unwrap() error { return e.Err }

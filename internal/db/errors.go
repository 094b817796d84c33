package db

import "errors"

// ErrSnapshotMissing signals that the store holds no snapshot yet.
var ErrSnapshotMissing = errors.New("db: snapshot missing")

// Op constants name the failing store operation for error context.
const (
	OpRead  = "read"
	OpWrite = "write"
	OpPing  = "ping"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

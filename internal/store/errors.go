package store

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord marks a line that cannot be turned into a record:
// wrong field count, unknown tag, bad number or date, or a line that does not
// decode under the given key.
var ErrMalformedRecord = errors.New("malformed record")

// RecordError locates a malformed line. It matches ErrMalformedRecord with errors.Is.
type RecordError struct {
	Line int    // 1-based
	Kind string // identity, account, operation, budget or line
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("line %d: malformed %s record: %v", e.Line, e.Kind, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

func malformed(line int, kind string, err error) error {
	return &RecordError{Line: line, Kind: kind, Err: err}
}

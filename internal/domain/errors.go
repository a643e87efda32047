package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references an event, task
// or reminder that does not exist (or is not visible to the owner).
var ErrNotFound = errors.New("not found")

// ErrUnknownOffsetUnit is the warning returned when a reminder offset
// carries an unrecognized unit. The operation still succeeds with the
// 15-minute default; callers that care about the degradation check for
// it with errors.Is.
var ErrUnknownOffsetUnit = errors.New("unknown offset unit, using 15 minute default")

// ValidationError describes a malformed event, task or offset. It is
// always returned before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RepositoryError wraps an I/O failure from the persistence layer.
// Repository failures are retryable from the caller's point of view:
// the transactional replace guarantees no half-written reminder set is
// ever observable.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository: %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a repository failure worth
// retrying.
func IsRetryable(err error) bool {
	var re *RepositoryError
	return errors.As(err, &re)
}

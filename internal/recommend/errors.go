// Package recommend implements the recommendation filter and its query
// builder: a validated filter specification is translated into a count
// query and a paginated result query that share the exact same
// predicate set, executed inside one read transaction so the total and
// the page never disagree.
package recommend

import "fmt"

// ValidationError reports malformed or out-of-range filter input. It is
// a caller error; handlers translate it into an HTTP 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid filter: %s: %s", e.Field, e.Reason)
}

// StorageError wraps a failure from the content store (connection loss,
// query error). It is never retried here; handlers translate it into an
// HTTP 500 response and the caller decides on retry policy.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("content store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

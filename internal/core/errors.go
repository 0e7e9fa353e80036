package core

import "fmt"

// Engine failures are typed so callers can map them without string matching.
// Every error names the offending field or id; the presentation layer should
// never have to re-derive that context.

// ValidationError reports an invalid field on an entity before any mutation
// is applied.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Msg)
}

// NotFoundError reports a reference to a non-existent entity.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError reports an operation that would violate referential or
// preset constraints, such as deleting a box that still has entries.
type ConflictError struct {
	Resource string
	ID       int64
	Msg      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s %d %s", e.Resource, e.ID, e.Msg)
}

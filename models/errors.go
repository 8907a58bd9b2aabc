package models

import (
	"errors"
	"fmt"
)

// UniqueViolationCode is the Postgres error code for a unique-constraint
// violation. The ingest API echoes it in conflict responses so HTTP callers
// can classify duplicates the same way direct-database callers do.
const UniqueViolationCode = "23505"

// ConflictError reports that the target already holds a row with the same
// natural key. For activity rows this is the expected outcome of a re-sync
// and is treated as benign by the pipeline.
type ConflictError struct {
	Resource string // "lead" or "activity"
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Resource, e.Key)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

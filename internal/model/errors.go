package model

import "errors"

// Error kinds shared by all services. Concrete failures wrap one of these with
// fmt.Errorf("%w: ..."), so callers match with errors.Is and adapters map each
// kind to their own transport convention.
var (
	// ErrValidation indicates caller-supplied data violates an entity invariant.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates the requested transition is disallowed by persisted state.
	ErrConflict = errors.New("conflict")
	// ErrNotFound indicates a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorage indicates an uninterpreted failure from the store.
	ErrStorage = errors.New("storage failure")
)

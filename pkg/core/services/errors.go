package services

import "errors"

// Sentinel errors for the caller-facing taxonomy: not-found and
// precondition violations are fatal before any mutation; exhaustion of the
// order of call is not an error at all.
var (
	ErrVacancyNotFound    = errors.New("vacancy not found")
	ErrVacancyNotPending  = errors.New("vacancy is not pending")
	ErrDispatcherNotFound = errors.New("dispatcher not found")
	ErrNoActiveAssignment = errors.New("dispatcher has no active regular assignment")
	ErrVacancyNotFilled   = errors.New("vacancy has no fill record")
)

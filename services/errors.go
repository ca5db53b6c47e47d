package services

import "fmt"

// Typed failures returned by the core services. The HTTP layer maps them to
// status codes; nothing here knows about fiber.

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError: the operation would violate a uniqueness invariant
// (duplicate active session, duplicate assignment, phone already registered).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ForbiddenError: caller does not own the resource.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NotActiveError: the operation requires the resource to be in ACTIVE state.
type NotActiveError struct {
	Message string
}

func (e *NotActiveError) Error() string { return e.Message }

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

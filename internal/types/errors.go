package types

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError indicates a missing or malformed caller-supplied field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NotFoundError indicates the referenced resource does not exist.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ForbiddenError indicates the caller does not own the resource.
// Its message never names the resource or owner.
type ForbiddenError struct{}

func (e *ForbiddenError) Error() string {
	return "not authorized"
}

// ConflictError indicates a uniqueness violation, such as a taken email.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// InvalidCredentialsError indicates a failed login.
type InvalidCredentialsError struct{}

func (e *InvalidCredentialsError) Error() string {
	return "invalid email or password"
}

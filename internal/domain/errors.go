package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the service layer unwraps to one of these.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrIntegrityViolation = errors.New("integrity violation")
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)

// Error is a domain error with a human-readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func InvalidStatef(format string, args ...any) error {
	return newError(ErrInvalidState, format, args...)
}

func Validationf(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func Integrityf(format string, args ...any) error {
	return newError(ErrIntegrityViolation, format, args...)
}

var (
	ErrModelNotFound      = newError(ErrNotFound, "tool model not found")
	ErrInstanceNotFound   = newError(ErrNotFound, "tool instance not found")
	ErrRentalNotFound     = newError(ErrNotFound, "rental not found")
	ErrRentalLineNotFound = newError(ErrNotFound, "rental line not found")
	ErrEmployeeNotFound   = newError(ErrNotFound, "employee not found")
	ErrCustomerNotFound   = newError(ErrNotFound, "customer not found")
	ErrTechnicianNotFound = newError(ErrNotFound, "technician not found")
	ErrWarehouseNotFound  = newError(ErrNotFound, "warehouse not found")
	ErrWorkshopNotFound   = newError(ErrNotFound, "workshop not found")

	ErrInsufficientStock  = newError(ErrInvalidState, "not enough available instances for the requested period")
	ErrModelHasInstances  = newError(ErrInvalidState, "tool model still has instances and cannot be withdrawn")
	ErrNotInWorkshop      = newError(ErrInvalidState, "instance is not in the workshop")
	ErrInstanceWithClient = newError(ErrInvalidState, "instance is currently rented out")
	ErrReviewExists       = newError(ErrIntegrityViolation, "you have already reviewed this tool model")

	ErrDuplicateEntry     = newError(ErrIntegrityViolation, "a record with the same unique data already exists")
	ErrInvalidReference   = newError(ErrIntegrityViolation, "referenced record does not exist")
	ErrConstraintViolated = newError(ErrIntegrityViolation, "data violates a database constraint")

	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid login or password")
	ErrMissingToken       = newError(ErrUnauthorized, "authentication required")
	ErrAccessDenied       = newError(ErrForbidden, "you are not allowed to perform this operation")
)

package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrIdentityGone       = errors.New("identity no longer exists")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Storage errors
	ErrStorageFailure = errors.New("storage failure")
)

// Course errors
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseAlreadyExists  = errors.New("course with this code already exists")
	ErrCourseFull           = errors.New("course is full")
	ErrCourseHasEnrollments = errors.New("course has active enrollments and cannot be deleted")
	ErrCourseHasHistory     = errors.New("course has enrollment records and cannot be deleted")
)

// Student errors
var (
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentAlreadyExists = errors.New("student with this number already exists")
)

// Enrollment errors
var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("student is already enrolled in this course")
	ErrInvalidTransition  = errors.New("invalid enrollment status transition")
	ErrEnrollmentInactive = errors.New("enrollment is not active")
)

// Is reports whether err matches target or any of the additional sentinels.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// NewNotFoundError creates a custom not-found error with a message.
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a custom conflict error with a message.
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a custom validation error with a message.
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewStorageError wraps a backend failure so handlers report it as a 500
// without leaking driver details to the caller.
func NewStorageError(err error) error {
	return &CustomError{
		Err:     ErrStorageFailure,
		Message: "storage operation failed",
		cause:   err,
	}
}

// CustomError carries an application sentinel plus human-readable context.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
	cause   error
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap lets errors.Is match the sentinel.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying backend error, if any.
func (e *CustomError) Cause() error {
	return e.cause
}

// WithDetails attaches context details to the error.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

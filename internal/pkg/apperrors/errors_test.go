package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	assert.True(t, Is(ErrCourseFull, ErrCourseFull))
	assert.True(t, Is(ErrCourseFull, ErrCourseNotFound, ErrStudentNotFound, ErrCourseFull))
	assert.False(t, Is(ErrCourseFull, ErrCourseNotFound, ErrStudentNotFound))

	wrapped := fmt.Errorf("enroll failed: %w", ErrAlreadyEnrolled)
	assert.True(t, Is(wrapped, ErrCourseNotFound, ErrAlreadyEnrolled))
}

func TestCustomError(t *testing.T) {
	t.Run("message takes precedence over the sentinel text", func(t *testing.T) {
		err := NewConflictError("enrollment is already dropped")
		assert.Equal(t, "enrollment is already dropped", err.Error())
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("storage errors keep their cause private", func(t *testing.T) {
		cause := errors.New("pq: connection refused")
		err := NewStorageError(cause)

		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.NotContains(t, err.Error(), "connection refused")

		var custom *CustomError
		assert.ErrorAs(t, err, &custom)
		assert.Equal(t, cause, custom.Cause())
	})

	t.Run("validation errors match the sentinel", func(t *testing.T) {
		err := NewValidationError("capacity must be positive")
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("not found errors match the sentinel", func(t *testing.T) {
		err := NewNotFoundError("no such course")
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})
}

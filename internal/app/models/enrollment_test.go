package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnrollmentStatus(t *testing.T) {
	t.Run("accepts known statuses", func(t *testing.T) {
		status, err := ParseEnrollmentStatus("active")
		require.NoError(t, err)
		assert.Equal(t, EnrollmentActive, status)

		status, err = ParseEnrollmentStatus("dropped")
		require.NoError(t, err)
		assert.Equal(t, EnrollmentDropped, status)
	})

	t.Run("rejects anything outside the closed set", func(t *testing.T) {
		for _, raw := range []string{"", "ACTIVE", "Active", "completed", "pending", "drop"} {
			_, err := ParseEnrollmentStatus(raw)
			assert.Error(t, err, "status %q should be rejected", raw)
		}
	})
}

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, EnrollmentActive.CanTransitionTo(EnrollmentDropped))

	assert.False(t, EnrollmentActive.CanTransitionTo(EnrollmentActive))
	assert.False(t, EnrollmentDropped.CanTransitionTo(EnrollmentActive))
	assert.False(t, EnrollmentDropped.CanTransitionTo(EnrollmentDropped))
}

func TestCourseHasCapacity(t *testing.T) {
	course := Course{Capacity: 2}

	course.EnrolledCount = 0
	assert.True(t, course.HasCapacity())

	course.EnrolledCount = 1
	assert.True(t, course.HasCapacity())

	course.EnrolledCount = 2
	assert.False(t, course.HasCapacity())

	course.EnrolledCount = 3
	assert.False(t, course.HasCapacity())
}

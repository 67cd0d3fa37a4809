package models

import (
	"fmt"
	"time"
)

// EnrollmentStatus represents the lifecycle state of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentActive  EnrollmentStatus = "active"
	EnrollmentDropped EnrollmentStatus = "dropped"
)

// ParseEnrollmentStatus converts a raw string into an EnrollmentStatus,
// rejecting anything outside the closed set.
func ParseEnrollmentStatus(raw string) (EnrollmentStatus, error) {
	switch EnrollmentStatus(raw) {
	case EnrollmentActive:
		return EnrollmentActive, nil
	case EnrollmentDropped:
		return EnrollmentDropped, nil
	default:
		return "", fmt.Errorf("unknown enrollment status %q", raw)
	}
}

// CanTransitionTo reports whether the status change is permitted.
// The only legal transition is active -> dropped; re-activation of a dropped
// enrollment is not supported.
func (s EnrollmentStatus) CanTransitionTo(target EnrollmentStatus) bool {
	return s == EnrollmentActive && target == EnrollmentDropped
}

// Enrollment links a student to a course based on the 'enrollments' table.
// At most one row exists per (student, course) pair regardless of status.
type Enrollment struct {
	ID         int64            `json:"id" db:"id"`
	StudentID  int64            `json:"studentId" db:"student_id"`
	CourseID   int64            `json:"courseId" db:"course_id"`
	Status     EnrollmentStatus `json:"status" db:"status"`
	Grade      *string          `json:"grade,omitempty" db:"grade"`
	EnrolledAt time.Time        `json:"enrolledAt" db:"enrolled_at"`

	// Display fields (populated by joined reads)
	StudentNo   string `json:"studentNo,omitempty"`
	StudentName string `json:"studentName,omitempty"`
	CourseCode  string `json:"courseCode,omitempty"`
	CourseName  string `json:"courseName,omitempty"`
}

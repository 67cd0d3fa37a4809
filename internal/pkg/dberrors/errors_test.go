package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "enrollments_student_course_key"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert failed: %w", unique)))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsUniqueViolationOn(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "enrollments_student_course_key"}

	assert.True(t, IsUniqueViolationOn(unique, "enrollments_student_course_key"))
	assert.False(t, IsUniqueViolationOn(unique, "users_email_key"))
	assert.False(t, IsUniqueViolationOn(errors.New("plain error"), "enrollments_student_course_key"))
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("delete failed: %w", fk)))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/app/repositories"
	"github.com/courseflow/server/internal/pkg/apperrors"
)

// StudentService defines the interface for student read operations.
type StudentService interface {
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	GetStudentByNo(ctx context.Context, studentNo string) (*models.Student, error)
}

// studentServiceImpl implements the StudentService interface.
type studentServiceImpl struct {
	studentStore repositories.StudentStore
}

// NewStudentService creates a new student service instance.
func NewStudentService(studentStore repositories.StudentStore) StudentService {
	return &studentServiceImpl{
		studentStore: studentStore,
	}
}

// GetAllStudents retrieves all students.
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	return s.studentStore.GetAll(ctx)
}

// GetStudentByNo retrieves a student by student number.
func (s *studentServiceImpl) GetStudentByNo(ctx context.Context, studentNo string) (*models.Student, error) {
	if strings.TrimSpace(studentNo) == "" {
		return nil, fmt.Errorf("%w: student number cannot be empty", apperrors.ErrValidationFailed)
	}

	return s.studentStore.GetByStudentNo(ctx, studentNo)
}

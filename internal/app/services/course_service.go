package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/app/repositories"
	"github.com/courseflow/server/internal/pkg/apperrors"
)

// CourseService defines the interface for course operations.
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) (int64, error)
	GetCourseByCode(ctx context.Context, code string) (*models.Course, error)
	GetAllCourses(ctx context.Context, semester string) ([]*models.Course, error)
	UpdateCourse(ctx context.Context, course *models.Course) (*models.Course, error)
	DeleteCourse(ctx context.Context, code string) error
}

// courseServiceImpl implements the CourseService interface.
type courseServiceImpl struct {
	courseRepo repositories.CourseStore
}

// NewCourseService creates a new course service instance.
func NewCourseService(courseRepo repositories.CourseStore) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
	}
}

// validateCourse validates course data before database operations.
func (s *courseServiceImpl) validateCourse(course *models.Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}

	if !isValidCourseCode(course.Code) {
		return fmt.Errorf("%w: code must be uppercase alphanumeric with optional dashes", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(course.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	if course.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", apperrors.ErrValidationFailed)
	}

	if course.Credits <= 0 {
		return fmt.Errorf("%w: credits must be positive", apperrors.ErrValidationFailed)
	}

	return nil
}

// isValidCourseCode checks a course code like "CSC-601".
func isValidCourseCode(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}

	for _, char := range code {
		if !((char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-') {
			return false
		}
	}

	return true
}

// CreateCourse creates a new course with a zeroed enrolled counter.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) (int64, error) {
	if err := s.validateCourse(course); err != nil {
		return 0, err
	}

	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return 0, err
	}
	course.ID = id
	course.EnrolledCount = 0

	return id, nil
}

// GetCourseByCode retrieves a course by code.
func (s *courseServiceImpl) GetCourseByCode(ctx context.Context, code string) (*models.Course, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: code cannot be empty", apperrors.ErrValidationFailed)
	}

	return s.courseRepo.GetByCode(ctx, code)
}

// GetAllCourses retrieves all courses, optionally filtered by semester.
func (s *courseServiceImpl) GetAllCourses(ctx context.Context, semester string) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx, semester)
}

// UpdateCourse modifies a course. Capacity may not drop below the current
// enrolled count, otherwise the counter invariant would be unsatisfiable.
func (s *courseServiceImpl) UpdateCourse(ctx context.Context, course *models.Course) (*models.Course, error) {
	if err := s.validateCourse(course); err != nil {
		return nil, err
	}

	current, err := s.courseRepo.GetByCode(ctx, course.Code)
	if err != nil {
		return nil, err
	}

	if course.Capacity < current.EnrolledCount {
		return nil, apperrors.NewConflictError(fmt.Sprintf(
			"capacity %d is below the current enrolled count %d", course.Capacity, current.EnrolledCount))
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return s.courseRepo.GetByCode(ctx, course.Code)
}

// DeleteCourse removes a course that has no active enrollments.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("%w: code cannot be empty", apperrors.ErrValidationFailed)
	}

	count, err := s.courseRepo.ActiveEnrollmentCount(ctx, code)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.ErrCourseHasEnrollments
	}

	return s.courseRepo.Delete(ctx, code)
}

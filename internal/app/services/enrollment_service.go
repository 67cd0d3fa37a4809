package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/app/repositories"
	"github.com/courseflow/server/internal/pkg/apperrors"
)

// EnrollmentService defines the interface for enrollment operations.
type EnrollmentService interface {
	Enroll(ctx context.Context, studentNo, courseCode string) (*models.Enrollment, error)
	SetStatus(ctx context.Context, enrollmentID int64, status models.EnrollmentStatus) (*models.Enrollment, error)
	SetGrade(ctx context.Context, enrollmentID int64, grade string) (*models.Enrollment, error)
	GetAll(ctx context.Context) ([]*models.Enrollment, error)
	GetByStudent(ctx context.Context, studentNo string) ([]*models.Enrollment, error)
}

// enrollmentServiceImpl implements EnrollmentService. It owns the enrolled
// counter: every counter change happens in the same transaction as the
// enrollment row change it accounts for.
type enrollmentServiceImpl struct {
	store  repositories.EnrollmentStore
	logger zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance.
func NewEnrollmentService(store repositories.EnrollmentStore, logger zerolog.Logger) EnrollmentService {
	return &enrollmentServiceImpl{
		store:  store,
		logger: logger,
	}
}

// domainErrors are surfaced to the caller as-is; anything else coming out of
// a transaction is a backend failure and is reported as a storage error,
// never retried (an ambiguous retry could enroll twice).
var domainErrors = []error{
	apperrors.ErrCourseNotFound,
	apperrors.ErrStudentNotFound,
	apperrors.ErrEnrollmentNotFound,
	apperrors.ErrAlreadyEnrolled,
	apperrors.ErrCourseFull,
	apperrors.ErrInvalidTransition,
	apperrors.ErrEnrollmentInactive,
	apperrors.ErrValidationFailed,
	apperrors.ErrConflict,
}

func (s *enrollmentServiceImpl) classify(err error) error {
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	s.logger.Error().Err(err).Msg("Enrollment transaction failed")
	return apperrors.NewStorageError(err)
}

// Enroll registers a student on a course. The whole check-and-increment
// sequence runs inside one transaction with the course row locked, so two
// concurrent enrolls for the same course cannot both observe a stale
// enrolled count. Checks run in a fixed order: course, student, duplicate,
// capacity.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentNo, courseCode string) (*models.Enrollment, error) {
	studentNo = strings.TrimSpace(studentNo)
	courseCode = strings.TrimSpace(courseCode)
	if studentNo == "" {
		return nil, apperrors.NewValidationError("student number is required")
	}
	if courseCode == "" {
		return nil, apperrors.NewValidationError("course code is required")
	}

	var enrollment *models.Enrollment
	err := s.store.Atomically(ctx, func(ctx context.Context, tx repositories.EnrollmentTx) error {
		// Lock the course row first; every check below is evaluated under
		// this lock, not against any pre-transaction read.
		course, err := tx.CourseForUpdate(ctx, courseCode)
		if err != nil {
			return err
		}

		student, err := tx.StudentByNo(ctx, studentNo)
		if err != nil {
			return err
		}

		exists, err := tx.EnrollmentExists(ctx, student.ID, course.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.ErrAlreadyEnrolled
		}

		if !course.HasCapacity() {
			return apperrors.ErrCourseFull
		}

		record := &models.Enrollment{
			StudentID: student.ID,
			CourseID:  course.ID,
			Status:    models.EnrollmentActive,
		}
		id, err := tx.InsertEnrollment(ctx, record)
		if err != nil {
			return err
		}
		record.ID = id

		if err := tx.AdjustEnrolledCount(ctx, course.ID, 1); err != nil {
			return err
		}

		record.StudentNo = student.StudentNo
		record.StudentName = student.Name
		record.CourseCode = course.Code
		record.CourseName = course.Name
		enrollment = record
		return nil
	})
	if err != nil {
		return nil, s.classify(err)
	}

	s.logger.Info().
		Str("studentNo", studentNo).
		Str("courseCode", courseCode).
		Int64("enrollmentID", enrollment.ID).
		Msg("Student enrolled")
	return enrollment, nil
}

// SetStatus changes an enrollment's status. Only active -> dropped is a
// legal transition; it decrements the course's enrolled counter in the same
// transaction, with both the enrollment row and the course row locked.
// Redundant drops and re-activations are rejected, so the counter can never
// be decremented twice for one enrollment.
func (s *enrollmentServiceImpl) SetStatus(ctx context.Context, enrollmentID int64, status models.EnrollmentStatus) (*models.Enrollment, error) {
	err := s.store.Atomically(ctx, func(ctx context.Context, tx repositories.EnrollmentTx) error {
		enrollment, err := tx.EnrollmentForUpdate(ctx, enrollmentID)
		if err != nil {
			return err
		}

		if !enrollment.Status.CanTransitionTo(status) {
			if enrollment.Status == status {
				return apperrors.NewConflictError("enrollment is already " + string(status))
			}
			return apperrors.ErrInvalidTransition
		}

		if _, err := tx.CourseForUpdateByID(ctx, enrollment.CourseID); err != nil {
			return err
		}

		if err := tx.UpdateEnrollmentStatus(ctx, enrollmentID, status); err != nil {
			return err
		}

		// The transition gate only admits active -> dropped here, so the
		// status write is always paired with exactly one decrement.
		return tx.AdjustEnrolledCount(ctx, enrollment.CourseID, -1)
	})
	if err != nil {
		return nil, s.classify(err)
	}

	s.logger.Info().
		Int64("enrollmentID", enrollmentID).
		Str("status", string(status)).
		Msg("Enrollment status changed")
	return s.GetByID(ctx, enrollmentID)
}

// SetGrade records a grade for an active enrollment.
func (s *enrollmentServiceImpl) SetGrade(ctx context.Context, enrollmentID int64, grade string) (*models.Enrollment, error) {
	err := s.store.Atomically(ctx, func(ctx context.Context, tx repositories.EnrollmentTx) error {
		enrollment, err := tx.EnrollmentForUpdate(ctx, enrollmentID)
		if err != nil {
			return err
		}

		if enrollment.Status != models.EnrollmentActive {
			return apperrors.ErrEnrollmentInactive
		}

		return tx.SetEnrollmentGrade(ctx, enrollmentID, grade)
	})
	if err != nil {
		return nil, s.classify(err)
	}

	return s.GetByID(ctx, enrollmentID)
}

// GetByID retrieves one enrollment with display fields.
func (s *enrollmentServiceImpl) GetByID(ctx context.Context, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.store.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, s.classify(err)
	}
	return enrollment, nil
}

// GetAll lists all enrollments joined with student and course display fields.
func (s *enrollmentServiceImpl) GetAll(ctx context.Context) ([]*models.Enrollment, error) {
	enrollments, err := s.store.GetAllDetailed(ctx)
	if err != nil {
		return nil, s.classify(err)
	}
	return enrollments, nil
}

// GetByStudent lists a student's enrollments.
func (s *enrollmentServiceImpl) GetByStudent(ctx context.Context, studentNo string) ([]*models.Enrollment, error) {
	if strings.TrimSpace(studentNo) == "" {
		return nil, apperrors.NewValidationError("student number is required")
	}

	enrollments, err := s.store.GetByStudentNo(ctx, studentNo)
	if err != nil {
		return nil, s.classify(err)
	}
	return enrollments, nil
}

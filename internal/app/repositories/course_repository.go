package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/pkg/apperrors"
	"github.com/courseflow/server/internal/pkg/dberrors"
)

const courseColumns = "id, code, name, description, semester, credits, instructor, capacity, enrolled_count"

// CourseStore is the storage gateway for course records.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) (int64, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	GetAll(ctx context.Context, semester string) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, code string) error
	ActiveEnrollmentCount(ctx context.Context, code string) (int, error)
}

// CourseRepository handles course database operations.
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID, &course.Code, &course.Name, &course.Description,
		&course.Semester, &course.Credits, &course.Instructor,
		&course.Capacity, &course.EnrolledCount,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a new course. The enrolled counter always starts at zero.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	sql, args, err := r.sb.Insert("courses").
		Columns("code", "name", "description", "semester", "credits", "instructor", "capacity", "enrolled_count").
		Values(course.Code, course.Name, course.Description, course.Semester, course.Credits, course.Instructor, course.Capacity, 0).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create course query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrCourseAlreadyExists
		}
		return 0, fmt.Errorf("error creating course: %w", err)
	}

	return id, nil
}

// GetByCode retrieves a course by its code.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns).
		From("courses").
		Where("code = ?", code).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error querying course: %w", err)
	}

	return course, nil
}

// GetAll retrieves all courses, optionally filtered by semester.
func (r *CourseRepository) GetAll(ctx context.Context, semester string) ([]*models.Course, error) {
	query := r.sb.Select(courseColumns).
		From("courses").
		OrderBy("code")
	if semester != "" {
		query = query.Where("semester = ?", semester)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing list courses query: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// Update modifies course fields other than the code and the enrolled counter.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("name", course.Name).
		Set("description", course.Description).
		Set("semester", course.Semester).
		Set("credits", course.Credits).
		Set("instructor", course.Instructor).
		Set("capacity", course.Capacity).
		Where("code = ?", course.Code).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course by code. The service layer rejects courses with
// active enrollments before calling this, so a foreign key violation here
// means only dropped enrollment rows remain and the history keeps the course.
func (r *CourseRepository) Delete(ctx context.Context, code string) error {
	sql, args, err := r.sb.Delete("courses").
		Where("code = ?", code).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseHasHistory
		}
		return fmt.Errorf("error deleting course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// ActiveEnrollmentCount counts active enrollments for a course code.
func (r *CourseRepository) ActiveEnrollmentCount(ctx context.Context, code string) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where("c.code = ? AND e.status = ?", code, models.EnrollmentActive).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build active enrollment count query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting active enrollments: %w", err)
	}

	return count, nil
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/db"
	"github.com/courseflow/server/internal/pkg/apperrors"
	"github.com/courseflow/server/internal/pkg/dberrors"
)

// EnrollmentTx is the transaction-scoped view of enrollment storage. Every
// method runs on the same transaction; CourseForUpdate takes a row-level
// write lock, so concurrent enrolls against the same course serialize on it.
type EnrollmentTx interface {
	CourseForUpdate(ctx context.Context, courseCode string) (*models.Course, error)
	CourseForUpdateByID(ctx context.Context, courseID int64) (*models.Course, error)
	StudentByNo(ctx context.Context, studentNo string) (*models.Student, error)
	EnrollmentExists(ctx context.Context, studentID, courseID int64) (bool, error)
	InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) (int64, error)
	EnrollmentForUpdate(ctx context.Context, id int64) (*models.Enrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
	SetEnrollmentGrade(ctx context.Context, id int64, grade string) error
	AdjustEnrolledCount(ctx context.Context, courseID int64, delta int) error
}

// EnrollmentStore is the storage gateway injected into the enrollment
// service. Atomically is the unit-of-work primitive: the callback either
// commits as a whole or leaves no trace.
type EnrollmentStore interface {
	Atomically(ctx context.Context, fn func(ctx context.Context, tx EnrollmentTx) error) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetAllDetailed(ctx context.Context) ([]*models.Enrollment, error)
	GetByStudentNo(ctx context.Context, studentNo string) ([]*models.Enrollment, error)
}

// EnrollmentRepository implements EnrollmentStore on Postgres.
type EnrollmentRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(database *db.PostgresDB) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Atomically runs fn inside a single database transaction.
func (r *EnrollmentRepository) Atomically(ctx context.Context, fn func(ctx context.Context, tx EnrollmentTx) error) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &enrollmentTx{tx: tx, sb: r.sb})
	})
}

// enrollmentTx executes the gateway operations on a live pgx transaction.
type enrollmentTx struct {
	tx pgx.Tx
	sb squirrel.StatementBuilderType
}

func (t *enrollmentTx) courseForUpdate(ctx context.Context, pred interface{}, arg interface{}) (*models.Course, error) {
	sql, args, err := t.sb.Select(courseColumns).
		From("courses").
		Where(pred, arg).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course lock query: %w", err)
	}

	course, err := scanCourse(t.tx.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error locking course row: %w", err)
	}

	return course, nil
}

// CourseForUpdate locks the course row by code and returns its current state.
func (t *enrollmentTx) CourseForUpdate(ctx context.Context, courseCode string) (*models.Course, error) {
	return t.courseForUpdate(ctx, "code = ?", courseCode)
}

// CourseForUpdateByID locks the course row by ID and returns its current state.
func (t *enrollmentTx) CourseForUpdateByID(ctx context.Context, courseID int64) (*models.Course, error) {
	return t.courseForUpdate(ctx, "id = ?", courseID)
}

// StudentByNo resolves a student inside the transaction.
func (t *enrollmentTx) StudentByNo(ctx context.Context, studentNo string) (*models.Student, error) {
	sql, args, err := t.sb.Select("id", "user_id", "student_no", "name", "semester", "contact").
		From("students").
		Where("student_no = ?", studentNo).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}

	var student models.Student
	err = t.tx.QueryRow(ctx, sql, args...).Scan(
		&student.ID, &student.UserID, &student.StudentNo, &student.Name, &student.Semester, &student.Contact,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error querying student: %w", err)
	}

	return &student, nil
}

// EnrollmentExists checks for an existing (student, course) row of any status.
func (t *enrollmentTx) EnrollmentExists(ctx context.Context, studentID, courseID int64) (bool, error) {
	sql, args, err := t.sb.Select("1").
		From("enrollments").
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}

	var one int
	err = t.tx.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}

	return true, nil
}

// InsertEnrollment inserts the enrollment row and returns its ID. The unique
// constraint on (student_id, course_id) backs up the in-transaction check.
func (t *enrollmentTx) InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) (int64, error) {
	sql, args, err := t.sb.Insert("enrollments").
		Columns("student_id", "course_id", "status").
		Values(enrollment.StudentID, enrollment.CourseID, enrollment.Status).
		Suffix("RETURNING id, enrolled_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert enrollment query: %w", err)
	}

	var id int64
	err = t.tx.QueryRow(ctx, sql, args...).Scan(&id, &enrollment.EnrolledAt)
	if err != nil {
		if dberrors.IsUniqueViolationOn(err, "enrollments_student_course_key") {
			return 0, apperrors.ErrAlreadyEnrolled
		}
		return 0, fmt.Errorf("error inserting enrollment: %w", err)
	}

	return id, nil
}

// EnrollmentForUpdate locks the enrollment row and returns its current state.
func (t *enrollmentTx) EnrollmentForUpdate(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := t.sb.Select("id", "student_id", "course_id", "status", "grade", "enrolled_at").
		From("enrollments").
		Where("id = ?", id).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollment lock query: %w", err)
	}

	var enrollment models.Enrollment
	err = t.tx.QueryRow(ctx, sql, args...).Scan(
		&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID,
		&enrollment.Status, &enrollment.Grade, &enrollment.EnrolledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error locking enrollment row: %w", err)
	}

	return &enrollment, nil
}

// UpdateEnrollmentStatus writes a new status for the enrollment.
func (t *enrollmentTx) UpdateEnrollmentStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	sql, args, err := t.sb.Update("enrollments").
		Set("status", status).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	result, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating enrollment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// SetEnrollmentGrade records a grade for the enrollment.
func (t *enrollmentTx) SetEnrollmentGrade(ctx context.Context, id int64, grade string) error {
	sql, args, err := t.sb.Update("enrollments").
		Set("grade", grade).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set grade query: %w", err)
	}

	result, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting enrollment grade: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// AdjustEnrolledCount moves the denormalized counter by delta. Decrements
// refuse to touch a counter already at zero; hitting that case means the
// counter and the enrollment rows have diverged, which the caller must treat
// as a storage-level failure.
func (t *enrollmentTx) AdjustEnrolledCount(ctx context.Context, courseID int64, delta int) error {
	query := t.sb.Update("courses").
		Set("enrolled_count", squirrel.Expr("enrolled_count + ?", delta)).
		Where("id = ?", courseID)
	if delta < 0 {
		query = query.Where("enrolled_count >= ?", -delta)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build counter update query: %w", err)
	}

	result, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating enrolled count: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: enrolled count for course %d would go negative", apperrors.ErrStorageFailure, courseID)
	}

	return nil
}

const enrollmentJoinColumns = "e.id, e.student_id, e.course_id, e.status, e.grade, e.enrolled_at, " +
	"s.student_no, s.name, c.code, c.name"

func scanDetailedEnrollment(rows pgx.Rows) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := rows.Scan(
		&enrollment.ID, &enrollment.StudentID, &enrollment.CourseID,
		&enrollment.Status, &enrollment.Grade, &enrollment.EnrolledAt,
		&enrollment.StudentNo, &enrollment.StudentName,
		&enrollment.CourseCode, &enrollment.CourseName,
	)
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetByID retrieves a single enrollment with display fields.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentJoinColumns).
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Join("courses c ON c.id = e.course_id").
		Where("e.id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get enrollment query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying enrollment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error reading enrollment row: %w", err)
		}
		return nil, apperrors.ErrEnrollmentNotFound
	}

	return scanDetailedEnrollment(rows)
}

// GetAllDetailed retrieves all enrollments joined with student and course
// display fields, newest first.
func (r *EnrollmentRepository) GetAllDetailed(ctx context.Context) ([]*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentJoinColumns).
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Join("courses c ON c.id = e.course_id").
		OrderBy("e.enrolled_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	return r.queryDetailed(ctx, sql, args)
}

// GetByStudentNo retrieves a student's enrollments, newest first.
func (r *EnrollmentRepository) GetByStudentNo(ctx context.Context, studentNo string) ([]*models.Enrollment, error) {
	sql, args, err := r.sb.Select(enrollmentJoinColumns).
		From("enrollments e").
		Join("students s ON s.id = e.student_id").
		Join("courses c ON c.id = e.course_id").
		Where("s.student_no = ?", studentNo).
		OrderBy("e.enrolled_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student enrollments query: %w", err)
	}

	enrollments, err := r.queryDetailed(ctx, sql, args)
	if err != nil {
		return nil, err
	}

	// Distinguish an unknown student from one with no enrollments.
	if len(enrollments) == 0 {
		existsSQL, existsArgs, err := r.sb.Select("1").
			From("students").
			Where("student_no = ?", studentNo).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build student exists query: %w", err)
		}
		var one int
		if err := r.db.Pool.QueryRow(ctx, existsSQL, existsArgs...).Scan(&one); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.ErrStudentNotFound
			}
			return nil, fmt.Errorf("error checking student existence: %w", err)
		}
	}

	return enrollments, nil
}

func (r *EnrollmentRepository) queryDetailed(ctx context.Context, sql string, args []interface{}) ([]*models.Enrollment, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing enrollments query: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanDetailedEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}

	return enrollments, rows.Err()
}

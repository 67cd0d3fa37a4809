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

// StudentStore is the student gateway used by the auth and student services.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error)
	GetAll(ctx context.Context) ([]*models.Student, error)
}

// StudentRepository handles student database operations.
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new student and returns its ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "student_no", "name", "semester", "contact").
		Values(student.UserID, student.StudentNo, student.Name, student.Semester, student.Contact).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrStudentAlreadyExists
		}
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return id, nil
}

// GetByStudentNo retrieves a student by student number.
func (r *StudentRepository) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "user_id", "student_no", "name", "semester", "contact").
		From("students").
		Where("student_no = ?", studentNo).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var student models.Student
	err = r.db.QueryRow(ctx, sql, args...).Scan(
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

// GetAll retrieves all students ordered by student number.
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select("id", "user_id", "student_no", "name", "semester", "contact").
		From("students").
		OrderBy("student_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing list students query: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		err := rows.Scan(
			&student.ID, &student.UserID, &student.StudentNo, &student.Name, &student.Semester, &student.Contact,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, &student)
	}

	return students, rows.Err()
}

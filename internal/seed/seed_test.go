package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/pkg/apperrors"
)

type seedUserStore struct {
	users   map[string]*models.User
	nextID  int64
	deletes int
}

func newSeedUserStore() *seedUserStore {
	return &seedUserStore{users: make(map[string]*models.User), nextID: 1}
}

func (f *seedUserStore) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	if _, ok := f.users[user.Email]; ok {
		return 0, apperrors.ErrEmailAlreadyExists
	}
	id := f.nextID
	f.nextID++
	copied := *user
	copied.ID = id
	f.users[user.Email] = &copied
	return id, nil
}

func (f *seedUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	return u, nil
}

func (f *seedUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrIdentityGone
}

func (f *seedUserStore) UserExists(ctx context.Context, id int64) (bool, error) {
	for _, u := range f.users {
		if u.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *seedUserStore) DeleteUser(ctx context.Context, id int64) error {
	f.deletes++
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			return nil
		}
	}
	return nil
}

type seedStudentStore struct {
	students map[string]*models.Student
	nextID   int64
}

func newSeedStudentStore() *seedStudentStore {
	return &seedStudentStore{students: make(map[string]*models.Student), nextID: 1}
}

func (f *seedStudentStore) Create(ctx context.Context, student *models.Student) (int64, error) {
	if _, ok := f.students[student.StudentNo]; ok {
		return 0, apperrors.ErrStudentAlreadyExists
	}
	id := f.nextID
	f.nextID++
	copied := *student
	copied.ID = id
	f.students[student.StudentNo] = &copied
	return id, nil
}

func (f *seedStudentStore) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	s, ok := f.students[studentNo]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

func (f *seedStudentStore) GetAll(ctx context.Context) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range f.students {
		out = append(out, s)
	}
	return out, nil
}

type seedCourseStore struct {
	courses map[string]*models.Course
	nextID  int64
	deletes int
}

func newSeedCourseStore() *seedCourseStore {
	return &seedCourseStore{courses: make(map[string]*models.Course), nextID: 1}
}

func (f *seedCourseStore) Create(ctx context.Context, course *models.Course) (int64, error) {
	if _, ok := f.courses[course.Code]; ok {
		return 0, apperrors.ErrCourseAlreadyExists
	}
	id := f.nextID
	f.nextID++
	copied := *course
	copied.ID = id
	copied.EnrolledCount = 0
	f.courses[course.Code] = &copied
	return id, nil
}

func (f *seedCourseStore) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	c, ok := f.courses[code]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return c, nil
}

func (f *seedCourseStore) GetAll(ctx context.Context, semester string) ([]*models.Course, error) {
	var out []*models.Course
	for _, c := range f.courses {
		out = append(out, c)
	}
	return out, nil
}

func (f *seedCourseStore) Update(ctx context.Context, course *models.Course) error {
	f.courses[course.Code] = course
	return nil
}

func (f *seedCourseStore) Delete(ctx context.Context, code string) error {
	f.deletes++
	delete(f.courses, code)
	return nil
}

func (f *seedCourseStore) ActiveEnrollmentCount(ctx context.Context, code string) (int, error) {
	return 0, nil
}

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the default rows on a fresh database", func(t *testing.T) {
		users := newSeedUserStore()
		students := newSeedStudentStore()
		courses := newSeedCourseStore()

		require.NoError(t, createDefaultData(ctx, users, students, courses, zerolog.Nop()))

		admin, err := users.GetUserByEmail(ctx, "admin@courseflow.local")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, admin.Role)
		assert.NotEqual(t, "Admin123!", admin.Password, "admin password must be stored hashed")

		assert.Len(t, courses.courses, 3)
		assert.Len(t, students.students, 1)
	})

	t.Run("running twice changes nothing and deletes nothing", func(t *testing.T) {
		users := newSeedUserStore()
		students := newSeedStudentStore()
		courses := newSeedCourseStore()

		require.NoError(t, createDefaultData(ctx, users, students, courses, zerolog.Nop()))

		firstAdmin, err := users.GetUserByEmail(ctx, "admin@courseflow.local")
		require.NoError(t, err)
		firstCourseIDs := make(map[string]int64, len(courses.courses))
		for code, c := range courses.courses {
			firstCourseIDs[code] = c.ID
		}
		firstStudent, err := students.GetByStudentNo(ctx, "CSC-23S-061")
		require.NoError(t, err)

		require.NoError(t, createDefaultData(ctx, users, students, courses, zerolog.Nop()))

		assert.Len(t, users.users, 1)
		assert.Len(t, courses.courses, 3)
		assert.Len(t, students.students, 1)
		assert.Zero(t, users.deletes, "seeding must never delete rows")
		assert.Zero(t, courses.deletes, "seeding must never delete rows")

		secondAdmin, err := users.GetUserByEmail(ctx, "admin@courseflow.local")
		require.NoError(t, err)
		assert.Equal(t, firstAdmin.ID, secondAdmin.ID)
		for code, c := range courses.courses {
			assert.Equal(t, firstCourseIDs[code], c.ID, "course %s must keep its row", code)
		}
		secondStudent, err := students.GetByStudentNo(ctx, "CSC-23S-061")
		require.NoError(t, err)
		assert.Equal(t, firstStudent.ID, secondStudent.ID)
	})

	t.Run("does not overwrite rows that already exist", func(t *testing.T) {
		users := newSeedUserStore()
		students := newSeedStudentStore()
		courses := newSeedCourseStore()

		existing := &models.Course{
			Code: "CSC-601", Name: "Distributed Systems (custom)",
			Semester: "2026-fall", Credits: 6, Instructor: "Dr. Replaced", Capacity: 10,
		}
		_, err := courses.Create(ctx, existing)
		require.NoError(t, err)

		require.NoError(t, createDefaultData(ctx, users, students, courses, zerolog.Nop()))

		kept, err := courses.GetByCode(ctx, "CSC-601")
		require.NoError(t, err)
		assert.Equal(t, "Distributed Systems (custom)", kept.Name)
		assert.Equal(t, 10, kept.Capacity)
	})
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/app/models/dto"
	"github.com/courseflow/server/internal/pkg/apperrors"
	pkgAuth "github.com/courseflow/server/internal/pkg/auth"
)

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64

	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	id := f.nextID
	f.nextID++
	copied := *user
	copied.ID = id
	copied.CreatedAt = time.Now()
	f.users[id] = &copied
	return id, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperrors.ErrInvalidCredentials
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrIdentityGone
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserStore) UserExists(ctx context.Context, id int64) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUserStore) DeleteUser(ctx context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakeStudentStore struct {
	students map[string]*models.Student
	nextID   int64

	createErr error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: make(map[string]*models.Student), nextID: 1}
}

func (f *fakeStudentStore) Create(ctx context.Context, student *models.Student) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
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

func (f *fakeStudentStore) GetByStudentNo(ctx context.Context, studentNo string) (*models.Student, error) {
	s, ok := f.students[studentNo]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStudentStore) GetAll(ctx context.Context) ([]*models.Student, error) {
	var out []*models.Student
	for _, s := range f.students {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

func newTestJWTService() *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "test",
	})
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:     "Jamie.Doe@Example.COM",
		Password:  "s3cretpass",
		FullName:  "Jamie Doe",
		StudentNo: "CSC-23S-061",
		Semester:  "2026-fall",
		Contact:   "jamie@example.com",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a user and a linked student", func(t *testing.T) {
		users := newFakeUserStore()
		students := newFakeStudentStore()
		service := NewAuthService(users, students, newTestJWTService(), zerolog.Nop())

		user, err := service.Register(ctx, registerRequest())
		require.NoError(t, err)

		assert.Equal(t, "jamie.doe@example.com", user.Email)
		assert.Equal(t, models.RoleStudent, user.Role)
		assert.NotEqual(t, "s3cretpass", user.Password, "password must be stored hashed")

		student, err := students.GetByStudentNo(ctx, "CSC-23S-061")
		require.NoError(t, err)
		require.NotNil(t, student.UserID)
		assert.Equal(t, user.ID, *student.UserID)
	})

	t.Run("rejects a duplicate student number up front", func(t *testing.T) {
		users := newFakeUserStore()
		students := newFakeStudentStore()
		_, err := students.Create(ctx, &models.Student{StudentNo: "CSC-23S-061", Name: "Existing"})
		require.NoError(t, err)
		service := NewAuthService(users, students, newTestJWTService(), zerolog.Nop())

		_, err = service.Register(ctx, registerRequest())
		assert.ErrorIs(t, err, apperrors.ErrStudentAlreadyExists)
		assert.Empty(t, users.users, "no user row should be created")
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		users := newFakeUserStore()
		students := newFakeStudentStore()
		service := NewAuthService(users, students, newTestJWTService(), zerolog.Nop())

		_, err := service.Register(ctx, registerRequest())
		require.NoError(t, err)

		second := registerRequest()
		second.StudentNo = "CSC-23S-062"
		_, err = service.Register(ctx, second)
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("removes the user when student creation fails", func(t *testing.T) {
		users := newFakeUserStore()
		students := newFakeStudentStore()
		students.createErr = errors.New("insert failed")
		service := NewAuthService(users, students, newTestJWTService(), zerolog.Nop())

		_, err := service.Register(ctx, registerRequest())
		require.Error(t, err)
		assert.Empty(t, users.users, "orphan user row must be cleaned up")
	})

	t.Run("rejects a blank student number", func(t *testing.T) {
		service := NewAuthService(newFakeUserStore(), newFakeStudentStore(), newTestJWTService(), zerolog.Nop())

		req := registerRequest()
		req.StudentNo = "   "
		_, err := service.Register(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) AuthService {
		t.Helper()
		users := newFakeUserStore()
		students := newFakeStudentStore()
		service := NewAuthService(users, students, newTestJWTService(), zerolog.Nop())
		_, err := service.Register(ctx, registerRequest())
		require.NoError(t, err)
		return service
	}

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		service := setup(t)

		token, err := service.Login(ctx, "jamie.doe@example.com", "s3cretpass")
		require.NoError(t, err)

		assert.NotEmpty(t, token.Token)
		assert.Equal(t, string(models.RoleStudent), token.Role)
		assert.Equal(t, int(time.Hour.Seconds()), token.ExpiresIn)
	})

	t.Run("normalizes the email before lookup", func(t *testing.T) {
		service := setup(t)

		_, err := service.Login(ctx, "  JAMIE.DOE@example.com ", "s3cretpass")
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		service := setup(t)

		_, errWrongPass := service.Login(ctx, "jamie.doe@example.com", "not-the-password")
		_, errUnknown := service.Login(ctx, "nobody@example.com", "s3cretpass")

		assert.ErrorIs(t, errWrongPass, apperrors.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknown, apperrors.ErrInvalidCredentials)
		assert.Equal(t, errWrongPass.Error(), errUnknown.Error())
	})
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/app/models/dto"
	"github.com/courseflow/server/internal/app/repositories"
	"github.com/courseflow/server/internal/pkg/apperrors"
	pkgAuth "github.com/courseflow/server/internal/pkg/auth"
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*dto.TokenResponse, error)
}

// authServiceImpl implements AuthService.
type authServiceImpl struct {
	userStore    repositories.UserStore
	studentStore repositories.StudentStore
	jwtService   *pkgAuth.JWTService
	logger       zerolog.Logger
}

// NewAuthService creates a new auth service instance.
func NewAuthService(
	userStore repositories.UserStore,
	studentStore repositories.StudentStore,
	jwtService *pkgAuth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		userStore:    userStore,
		studentStore: studentStore,
		jwtService:   jwtService,
		logger:       logger,
	}
}

// Register creates a student account: a user row for authentication and a
// student row for enrollment. A duplicate student number after the user row
// was created triggers a compensating user delete so no orphan identity is
// left behind.
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	studentNo := strings.TrimSpace(req.StudentNo)
	if studentNo == "" {
		return nil, apperrors.NewValidationError("student number is required")
	}

	if _, err := s.studentStore.GetByStudentNo(ctx, studentNo); err == nil {
		return nil, apperrors.ErrStudentAlreadyExists
	} else if !errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, fmt.Errorf("error checking student number: %w", err)
	}

	hashedPassword, err := pkgAuth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		FullName: req.FullName,
		Role:     models.RoleStudent,
	}
	userID, err := s.userStore.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = userID

	student := &models.Student{
		UserID:    &userID,
		StudentNo: studentNo,
		Name:      req.FullName,
		Semester:  req.Semester,
		Contact:   req.Contact,
	}
	if _, err := s.studentStore.Create(ctx, student); err != nil {
		if delErr := s.userStore.DeleteUser(ctx, userID); delErr != nil {
			s.logger.Error().Err(delErr).Int64("userID", userID).Msg("Failed to clean up user after student creation failure")
		}
		return nil, err
	}

	s.logger.Info().Str("email", user.Email).Str("studentNo", studentNo).Msg("Student registered")
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	user, err := s.userStore.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkgAuth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("email", user.Email).Msg("User logged in")
	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
		Role:      string(user.Role),
	}, nil
}

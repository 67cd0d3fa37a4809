package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/courseflow/server/internal/app/models"
	appRepos "github.com/courseflow/server/internal/app/repositories"
	"github.com/courseflow/server/internal/pkg/apperrors"
	pkgAuth "github.com/courseflow/server/internal/pkg/auth"
)

// CreateDefaultData inserts the default admin account, a demo student and a
// handful of reference courses when they don't already exist. Conflicts with
// existing rows are treated as "already seeded" and skipped, so running the
// seed again changes nothing.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	return createDefaultData(ctx,
		appRepos.NewUserRepository(dbPool),
		appRepos.NewStudentRepository(dbPool),
		appRepos.NewCourseRepository(dbPool),
		lgr,
	)
}

func createDefaultData(
	ctx context.Context,
	userStore appRepos.UserStore,
	studentStore appRepos.StudentStore,
	courseStore appRepos.CourseStore,
	lgr zerolog.Logger,
) error {
	lgr.Info().Msg("Checking/creating default data...")
	var finalErr error

	// --- Default admin account --- //
	hashedPassword, err := pkgAuth.HashPassword("Admin123!")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		finalErr = errors.Join(finalErr, err)
	} else {
		admin := &appModels.User{
			Email:    "admin@courseflow.local",
			Password: hashedPassword,
			FullName: "System Administrator",
			Role:     appModels.RoleAdmin,
		}
		if _, err := userStore.CreateUser(ctx, admin); err != nil {
			if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
				lgr.Debug().Msg("Admin user already exists, skipping")
			} else {
				lgr.Error().Err(err).Msg("Error creating admin user")
				finalErr = errors.Join(finalErr, err)
			}
		} else {
			lgr.Info().Msg("Default admin user created")
		}
	}

	// --- Reference courses --- //
	description := func(s string) *string { return &s }
	courses := []*appModels.Course{
		{
			Code:        "CSC-601",
			Name:        "Distributed Systems",
			Description: description("Consensus, replication and fault tolerance."),
			Semester:    "2026-fall",
			Credits:     6,
			Instructor:  "Dr. A. Demir",
			Capacity:    35,
		},
		{
			Code:        "CSC-502",
			Name:        "Database Internals",
			Description: description("Storage engines, transactions and query planning."),
			Semester:    "2026-fall",
			Credits:     5,
			Instructor:  "Dr. L. Kaya",
			Capacity:    40,
		},
		{
			Code:       "MAT-301",
			Name:       "Linear Algebra",
			Semester:   "2026-fall",
			Credits:    4,
			Instructor: "Dr. S. Arslan",
			Capacity:   80,
		},
	}
	for _, course := range courses {
		if _, err := courseStore.Create(ctx, course); err != nil {
			if errors.Is(err, apperrors.ErrCourseAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("code", course.Code).Msg("Error creating seed course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Demo student --- //
	demoStudent := &appModels.Student{
		StudentNo: "CSC-23S-061",
		Name:      "Demo Student",
		Semester:  "2026-fall",
		Contact:   "demo@courseflow.local",
	}
	if _, err := studentStore.Create(ctx, demoStudent); err != nil {
		if errors.Is(err, apperrors.ErrStudentAlreadyExists) {
			lgr.Debug().Msg("Demo student already exists, skipping")
		} else {
			lgr.Error().Err(err).Msg("Error creating demo student")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

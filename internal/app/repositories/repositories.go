package repositories

import (
	"github.com/courseflow/server/internal/db"
)

// Repositories holds all the repository instances.
type Repositories struct {
	UserRepository       *UserRepository
	StudentRepository    *StudentRepository
	CourseRepository     *CourseRepository
	EnrollmentRepository *EnrollmentRepository
}

// NewRepositories initializes all repositories on the shared pool.
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(database.Pool),
		StudentRepository:    NewStudentRepository(database.Pool),
		CourseRepository:     NewCourseRepository(database.Pool),
		EnrollmentRepository: NewEnrollmentRepository(database),
	}
}

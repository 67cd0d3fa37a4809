package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courseflow/server/internal/app/controllers"
	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/middleware"
)

// SetupRouter configures all application routes.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	studentController *controllers.StudentController,
	enrollmentController *controllers.EnrollmentController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// Health check endpoint (public)
	v1.GET("/health", healthController.Health)

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Public course reads ---
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.GetAllCourses)
		courses.GET("/:code", courseController.GetCourseByCode)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.POST("", enrollmentController.Enroll)
			enrollments.GET("", enrollmentController.GetAll)
			enrollments.PUT("/:id/status", enrollmentController.SetStatus)
		}

		students := authenticated.Group("/students")
		{
			students.GET("/:studentNo/enrollments", enrollmentController.GetByStudent)
		}

		// Admin-only routes
		adminProtected := authenticated.Group("")
		adminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			adminProtected.POST("/courses", courseController.CreateCourse)
			adminProtected.PUT("/courses/:code", courseController.UpdateCourse)
			adminProtected.DELETE("/courses/:code", courseController.DeleteCourse)

			adminProtected.GET("/students", studentController.GetAllStudents)
			adminProtected.GET("/students/:studentNo", studentController.GetStudentByNo)

			adminProtected.PUT("/enrollments/:id/grade", enrollmentController.SetGrade)
		}
	}
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseflow/server/internal/app/models/dto"
	"github.com/courseflow/server/internal/app/services"
	"github.com/courseflow/server/internal/middleware"
)

// StudentController handles student read endpoints.
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController.
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// GetAllStudents lists students
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Student} "Students retrieved"
// @Failure 403 {object} dto.APIResponse "Admin role required"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.GetAllStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(students))
}

// GetStudentByNo retrieves a student by number
// @Summary Get student by number
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param studentNo path string true "Student number"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /students/{studentNo} [get]
func (c *StudentController) GetStudentByNo(ctx *gin.Context) {
	student, err := c.studentService.GetStudentByNo(ctx.Request.Context(), ctx.Param("studentNo"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/app/models/dto"
	"github.com/courseflow/server/internal/app/services"
	"github.com/courseflow/server/internal/middleware"
)

// CourseController handles course endpoints.
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController.
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// CreateCourse handles course creation
// @Summary Create a new course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 403 {object} dto.APIResponse "Admin role required"
// @Failure 409 {object} dto.APIResponse "Course already exists"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course := &models.Course{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Semester:    req.Semester,
		Credits:     req.Credits,
		Instructor:  req.Instructor,
		Capacity:    req.Capacity,
	}
	if _, err := c.courseService.CreateCourse(ctx.Request.Context(), course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// GetCourseByCode retrieves a course by code
// @Summary Get course by code
// @Tags courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /courses/{code} [get]
func (c *CourseController) GetCourseByCode(ctx *gin.Context) {
	course, err := c.courseService.GetCourseByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// GetAllCourses lists courses
// @Summary List courses
// @Description Lists all courses, optionally filtered by semester
// @Tags courses
// @Produce json
// @Param semester query string false "Filter by semester"
// @Success 200 {object} dto.APIResponse{data=[]models.Course} "Courses retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetAllCourses(ctx.Request.Context(), ctx.Query("semester"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// UpdateCourse modifies a course
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Course code"
// @Param request body dto.UpdateCourseRequest true "Course information"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 403 {object} dto.APIResponse "Admin role required"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Failure 409 {object} dto.APIResponse "Capacity below enrolled count"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /courses/{code} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course := &models.Course{
		Code:        ctx.Param("code"),
		Name:        req.Name,
		Description: req.Description,
		Semester:    req.Semester,
		Credits:     req.Credits,
		Instructor:  req.Instructor,
		Capacity:    req.Capacity,
	}
	updated, err := c.courseService.UpdateCourse(ctx.Request.Context(), course)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(updated))
}

// DeleteCourse removes a course
// @Summary Delete a course
// @Description Deletes a course that has no active enrollments
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param code path string true "Course code"
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 403 {object} dto.APIResponse "Admin role required"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Failure 409 {object} dto.APIResponse "Course has active enrollments"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /courses/{code} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.courseService.DeleteCourse(ctx.Request.Context(), ctx.Param("code")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Course deleted"))
}

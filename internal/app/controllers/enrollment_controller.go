package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/app/models/dto"
	"github.com/courseflow/server/internal/app/services"
	"github.com/courseflow/server/internal/middleware"
)

// EnrollmentController handles enrollment endpoints.
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController.
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
	}
}

// Enroll registers a student on a course
// @Summary Enroll a student
// @Description Atomically enrolls a student on a course, checking capacity and duplicate enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Enrollment request"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrollment created"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 404 {object} dto.APIResponse "Course or student not found"
// @Failure 409 {object} dto.APIResponse "Already enrolled or course full"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx.Request.Context(), req.StudentNo, req.CourseCode)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(enrollment))
}

// SetStatus changes an enrollment's status
// @Summary Change enrollment status
// @Description Applies a status transition; dropping an active enrollment releases its seat
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.SetStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Status updated"
// @Failure 400 {object} dto.APIResponse "Invalid status or ID"
// @Failure 404 {object} dto.APIResponse "Enrollment not found"
// @Failure 409 {object} dto.APIResponse "Illegal status transition"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /enrollments/{id}/status [put]
func (c *EnrollmentController) SetStatus(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment ID").
			WithDetails("Enrollment ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.SetStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	status, err := models.ParseEnrollmentStatus(req.Status)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid status value").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	enrollment, err := c.enrollmentService.SetStatus(ctx.Request.Context(), id, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollment))
}

// SetGrade records a grade for an enrollment
// @Summary Record a grade
// @Description Records a letter grade on an active enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param request body dto.SetGradeRequest true "Grade"
// @Success 200 {object} dto.APIResponse{data=models.Enrollment} "Grade recorded"
// @Failure 400 {object} dto.APIResponse "Invalid grade or ID"
// @Failure 404 {object} dto.APIResponse "Enrollment not found"
// @Failure 409 {object} dto.APIResponse "Enrollment is not active"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /enrollments/{id}/grade [put]
func (c *EnrollmentController) SetGrade(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment ID").
			WithDetails("Enrollment ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.SetGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid grade data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	enrollment, err := c.enrollmentService.SetGrade(ctx.Request.Context(), id, req.Grade)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollment))
}

// GetAll lists all enrollments
// @Summary List enrollments
// @Description Lists all enrollments joined with student and course display fields
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /enrollments [get]
func (c *EnrollmentController) GetAll(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.GetAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments))
}

// GetByStudent lists a student's enrollments
// @Summary List a student's enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param studentNo path string true "Student number"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments retrieved"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /students/{studentNo}/enrollments [get]
func (c *EnrollmentController) GetByStudent(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.GetByStudent(ctx.Request.Context(), ctx.Param("studentNo"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(enrollments))
}

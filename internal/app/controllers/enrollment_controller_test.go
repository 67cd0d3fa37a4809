package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/courseflow/server/internal/app/models"
	"github.com/courseflow/server/internal/pkg/apperrors"
)

// stubEnrollmentService returns canned results so the controller's request
// parsing and error mapping can be tested without any storage.
type stubEnrollmentService struct {
	enrollment *models.Enrollment
	err        error

	gotStudentNo  string
	gotCourseCode string
	gotID         int64
	gotStatus     models.EnrollmentStatus
	gotGrade      string
}

func (s *stubEnrollmentService) Enroll(ctx context.Context, studentNo, courseCode string) (*models.Enrollment, error) {
	s.gotStudentNo, s.gotCourseCode = studentNo, courseCode
	return s.enrollment, s.err
}

func (s *stubEnrollmentService) SetStatus(ctx context.Context, enrollmentID int64, status models.EnrollmentStatus) (*models.Enrollment, error) {
	s.gotID, s.gotStatus = enrollmentID, status
	return s.enrollment, s.err
}

func (s *stubEnrollmentService) SetGrade(ctx context.Context, enrollmentID int64, grade string) (*models.Enrollment, error) {
	s.gotID, s.gotGrade = enrollmentID, grade
	return s.enrollment, s.err
}

func (s *stubEnrollmentService) GetAll(ctx context.Context) ([]*models.Enrollment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Enrollment{s.enrollment}, nil
}

func (s *stubEnrollmentService) GetByStudent(ctx context.Context, studentNo string) ([]*models.Enrollment, error) {
	s.gotStudentNo = studentNo
	if s.err != nil {
		return nil, s.err
	}
	return []*models.Enrollment{s.enrollment}, nil
}

func newEnrollmentTestRouter(service *stubEnrollmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewEnrollmentController(service)

	router := gin.New()
	router.POST("/enrollments", controller.Enroll)
	router.PUT("/enrollments/:id/status", controller.SetStatus)
	router.PUT("/enrollments/:id/grade", controller.SetGrade)
	router.GET("/enrollments", controller.GetAll)
	router.GET("/students/:studentNo/enrollments", controller.GetByStudent)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEnrollEndpoint(t *testing.T) {
	t.Run("returns 201 with the enrollment", func(t *testing.T) {
		service := &stubEnrollmentService{enrollment: &models.Enrollment{
			ID: 1, StudentID: 10, CourseID: 5, Status: models.EnrollmentActive,
			StudentNo: "CSC-23S-061", CourseCode: "CSC-601",
		}}
		router := newEnrollmentTestRouter(service)

		w := doJSON(router, http.MethodPost, "/enrollments",
			`{"studentNo":"CSC-23S-061","courseCode":"CSC-601"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "CSC-23S-061", service.gotStudentNo)
		assert.Equal(t, "CSC-601", service.gotCourseCode)
		assert.Contains(t, w.Body.String(), `"success":true`)
		assert.Contains(t, w.Body.String(), `"status":"active"`)
	})

	t.Run("returns 400 for a missing field", func(t *testing.T) {
		router := newEnrollmentTestRouter(&stubEnrollmentService{})

		w := doJSON(router, http.MethodPost, "/enrollments", `{"studentNo":"CSC-23S-061"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VAL_001")
	})

	t.Run("maps domain errors to statuses", func(t *testing.T) {
		cases := []struct {
			err        error
			wantStatus int
		}{
			{apperrors.ErrCourseNotFound, http.StatusNotFound},
			{apperrors.ErrStudentNotFound, http.StatusNotFound},
			{apperrors.ErrAlreadyEnrolled, http.StatusConflict},
			{apperrors.ErrCourseFull, http.StatusConflict},
		}
		for _, tc := range cases {
			router := newEnrollmentTestRouter(&stubEnrollmentService{err: tc.err})
			w := doJSON(router, http.MethodPost, "/enrollments",
				`{"studentNo":"CSC-23S-061","courseCode":"CSC-601"}`)
			assert.Equal(t, tc.wantStatus, w.Code, "error %v", tc.err)
		}
	})
}

func TestSetStatusEndpoint(t *testing.T) {
	t.Run("parses the ID and status", func(t *testing.T) {
		service := &stubEnrollmentService{enrollment: &models.Enrollment{
			ID: 7, Status: models.EnrollmentDropped,
		}}
		router := newEnrollmentTestRouter(service)

		w := doJSON(router, http.MethodPut, "/enrollments/7/status", `{"status":"dropped"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), service.gotID)
		assert.Equal(t, models.EnrollmentDropped, service.gotStatus)
	})

	t.Run("rejects a non-numeric ID", func(t *testing.T) {
		router := newEnrollmentTestRouter(&stubEnrollmentService{})

		w := doJSON(router, http.MethodPut, "/enrollments/abc/status", `{"status":"dropped"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects an unknown status before hitting the service", func(t *testing.T) {
		service := &stubEnrollmentService{}
		router := newEnrollmentTestRouter(service)

		w := doJSON(router, http.MethodPut, "/enrollments/7/status", `{"status":"completed"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, service.gotID, "service must not be called for an invalid status")
	})

	t.Run("maps an illegal transition to 409", func(t *testing.T) {
		router := newEnrollmentTestRouter(&stubEnrollmentService{err: apperrors.ErrInvalidTransition})

		w := doJSON(router, http.MethodPut, "/enrollments/7/status", `{"status":"active"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestSetGradeEndpoint(t *testing.T) {
	t.Run("records a grade", func(t *testing.T) {
		grade := "BA"
		service := &stubEnrollmentService{enrollment: &models.Enrollment{
			ID: 7, Status: models.EnrollmentActive, Grade: &grade,
		}}
		router := newEnrollmentTestRouter(service)

		w := doJSON(router, http.MethodPut, "/enrollments/7/grade", `{"grade":"BA"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "BA", service.gotGrade)
	})

	t.Run("rejects a grade outside the letter scale", func(t *testing.T) {
		router := newEnrollmentTestRouter(&stubEnrollmentService{})

		w := doJSON(router, http.MethodPut, "/enrollments/7/grade", `{"grade":"A+"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps an inactive enrollment to 409", func(t *testing.T) {
		router := newEnrollmentTestRouter(&stubEnrollmentService{err: apperrors.ErrEnrollmentInactive})

		w := doJSON(router, http.MethodPut, "/enrollments/7/grade", `{"grade":"BA"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEnrollmentListEndpoints(t *testing.T) {
	enrollment := &models.Enrollment{ID: 1, StudentNo: "CSC-23S-061", CourseCode: "CSC-601"}

	t.Run("lists all enrollments", func(t *testing.T) {
		router := newEnrollmentTestRouter(&stubEnrollmentService{enrollment: enrollment})

		w := doJSON(router, http.MethodGet, "/enrollments", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "CSC-601")
	})

	t.Run("lists a student's enrollments", func(t *testing.T) {
		service := &stubEnrollmentService{enrollment: enrollment}
		router := newEnrollmentTestRouter(service)

		w := doJSON(router, http.MethodGet, "/students/CSC-23S-061/enrollments", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "CSC-23S-061", service.gotStudentNo)
	})

	t.Run("maps an unknown student to 404", func(t *testing.T) {
		router := newEnrollmentTestRouter(&stubEnrollmentService{err: apperrors.ErrStudentNotFound})

		w := doJSON(router, http.MethodGet, "/students/NOBODY/enrollments", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

package dto

// EnrollRequest is the payload for creating an enrollment.
type EnrollRequest struct {
	StudentNo  string `json:"studentNo" binding:"required"`
	CourseCode string `json:"courseCode" binding:"required"`
}

// SetStatusRequest is the payload for changing an enrollment's status.
// The status is validated against the closed enum by the service, not here,
// so unknown values produce a domain validation error rather than a bind error.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetGradeRequest is the payload for recording a grade.
type SetGradeRequest struct {
	Grade string `json:"grade" binding:"required,oneof=AA BA BB CB CC DC DD FD FF"`
}

package dto

// CreateCourseRequest is the payload for course creation.
type CreateCourseRequest struct {
	Code        string  `json:"code" binding:"required,coursecode"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Semester    string  `json:"semester" binding:"required"`
	Credits     int     `json:"credits" binding:"required,min=1,max=30"`
	Instructor  string  `json:"instructor" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required,min=1"`
}

// UpdateCourseRequest is the payload for course updates. The code is taken
// from the URL and cannot change.
type UpdateCourseRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Semester    string  `json:"semester" binding:"required"`
	Credits     int     `json:"credits" binding:"required,min=1,max=30"`
	Instructor  string  `json:"instructor" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required,min=1"`
}

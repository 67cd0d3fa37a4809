package models

// Course represents a course offering based on the 'courses' table.
//
// EnrolledCount is a denormalized aggregate: between transactions it always
// equals the number of active enrollments for the course. Only the enrollment
// service writes it, and always in the same transaction as the enrollment
// row it accounts for.
type Course struct {
	ID            int64   `json:"id" db:"id"`
	Code          string  `json:"code" db:"code"`
	Name          string  `json:"name" db:"name"`
	Description   *string `json:"description,omitempty" db:"description"`
	Semester      string  `json:"semester" db:"semester"`
	Credits       int     `json:"credits" db:"credits"`
	Instructor    string  `json:"instructor" db:"instructor"`
	Capacity      int     `json:"capacity" db:"capacity"`
	EnrolledCount int     `json:"enrolledCount" db:"enrolled_count"`
}

// HasCapacity reports whether the course can take one more active enrollment.
func (c *Course) HasCapacity() bool {
	return c.EnrolledCount < c.Capacity
}

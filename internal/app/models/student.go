package models

// Student defines the student model based on the 'students' table.
// StudentNo is the externally visible identifier (e.g. "CSC-23S-061");
// UserID links the student to an account and is nil for seeded records.
type Student struct {
	ID        int64  `json:"id" db:"id"`
	UserID    *int64 `json:"userId,omitempty" db:"user_id"`
	StudentNo string `json:"studentNo" db:"student_no"`
	Name      string `json:"name" db:"name"`
	Semester  string `json:"semester" db:"semester"`
	Contact   string `json:"contact" db:"contact"`
}

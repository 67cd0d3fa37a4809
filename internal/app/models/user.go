package models

import "time"

// UserRole identifies the privilege level of an account.
type UserRole string

// Available roles.
const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

// User defines an authenticated identity based on the 'users' table.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password_hash"`
	FullName  string    `json:"fullName" db:"full_name"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

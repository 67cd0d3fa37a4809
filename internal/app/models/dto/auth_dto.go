package dto

// RegisterRequest is the payload for student self-registration.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FullName  string `json:"fullName" binding:"required"`
	StudentNo string `json:"studentNo" binding:"required"`
	Semester  string `json:"semester" binding:"required"`
	Contact   string `json:"contact"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	Role      string `json:"role"`
}

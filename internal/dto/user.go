package dto

// LoginRequest carries the credentials for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest carries the sign-up form for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=1,max=120"`
	Password string `json:"password" binding:"required,min=1"`
}

// UserResponse is the public shape of a user account.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

package model

// User is a registered account. Records are append-only: a user is never
// mutated or deleted after signup. The password is stored verbatim and never
// leaves the server; responses use UserResponse.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a User (no password).
type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the password-free view of the user.
func (u User) Public() UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

// LoginResponse is the response body for POST /api/login.
type LoginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    *UserResponse `json:"user"`
}

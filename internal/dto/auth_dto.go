package dto

// LoginRequest carries login credentials. Teachers log in with email only;
// admins must supply a password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token and the authenticated identity.
type LoginResponse struct {
	Token     string `json:"token"`
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	TeacherID uint   `json:"teacher_id,omitempty"`
}

package users

import (
	"regexp"

	"coleccion-arte/internal/domain/access"
	"coleccion-arte/internal/domain/users"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}

/* ---------- RESPONSES ---------- */

type UserDTO struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  access.Role `json:"rol"`
}

// MeResponse adds the contribution score to the public fields.
type MeResponse struct {
	UserDTO
	Points int `json:"puntos"`
}

func toUserDTO(u *users.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Role: u.Role}
}

/* ---------- REQUESTS ---------- */

type registerInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"rol"`
}

type roleInput struct {
	Role string `json:"rol"`
}

/* ---------- AUDIT ---------- */

type auditUserCreated struct {
	UserID uint   `json:"usuarioCreadoId"`
	Email  string `json:"email"`
	Role   string `json:"rol"`
}

type auditRoleChanged struct {
	UserID  uint   `json:"usuarioAfectadoId"`
	Email   string `json:"email"`
	NewRole string `json:"nuevoRol"`
}

type auditUserDeleted struct {
	UserID uint   `json:"usuarioEliminadoId"`
	Email  string `json:"email"`
}

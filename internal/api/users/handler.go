package users

import (
	"errors"
	"net/http"
	"strings"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/access"
	"coleccion-arte/internal/domain/users"
	"coleccion-arte/internal/domain/works"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type Handler struct {
	DB    *gorm.DB
	Audit *audit.Recorder
	// BcryptCost defaults to bcrypt.DefaultCost when zero.
	BcryptCost int
}

func NewHandler(db *gorm.DB, rec *audit.Recorder) *Handler {
	return &Handler{DB: db, Audit: rec}
}

// GET /api/usuarios/me
func (h *Handler) Me(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Acceso denegado. No se proporcionó un token."})
		return
	}

	var user users.User
	if err := h.DB.First(&user, claims.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	c.JSON(http.StatusOK, MeResponse{UserDTO: toUserDTO(&user), Points: user.Points})
}

// GET /api/usuarios
func (h *Handler) List(c *gin.Context) {
	var rows []users.User
	if err := h.DB.Order("id ASC").Find(&rows).Error; err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toUserDTO(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/usuarios/registrar
func (h *Handler) Register(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos."})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !isEmailValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Correo electrónico inválido."})
		return
	}
	if len(in.Password) < minPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La contraseña debe tener al menos 6 caracteres."})
		return
	}

	role := access.RoleLector
	if strings.TrimSpace(in.Role) != "" {
		r, err := access.ParseRole(in.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido."})
			return
		}
		role = r
	}

	var existing int64
	if err := h.DB.Model(&users.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&existing).Error; err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El correo electrónico ya está registrado."})
		return
	}

	cost := h.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	user := users.User{Email: email, PasswordHash: string(hash), Role: role}
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "El correo electrónico ya está registrado."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionUserCreated, middleware.Actor(c), auditUserCreated{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	c.JSON(http.StatusCreated, toUserDTO(&user))
}

// PUT /api/usuarios/:id/rol
func (h *Handler) ChangeRole(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var in roleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido."})
		return
	}
	role, err := access.ParseRole(in.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rol inválido."})
		return
	}

	var user users.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	if err := h.DB.Model(&user).Update("rol", role).Error; err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}
	user.Role = role

	h.Audit.Record(c.Request.Context(), audit.ActionRoleChanged, middleware.Actor(c), auditRoleChanged{
		UserID:  user.ID,
		Email:   user.Email,
		NewRole: string(role),
	})
	c.JSON(http.StatusOK, toUserDTO(&user))
}

// DELETE /api/usuarios/:id
//
// Conservation reports written by the user are kept with no author.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	actor := middleware.Actor(c)
	if actor.ID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un administrador no se puede eliminar a sí mismo."})
		return
	}

	var user users.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuario no encontrado."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&works.ConservationReport{}).
			Where("usuario_id = ?", id).
			Update("usuario_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&users.User{}, id).Error
	})
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionUserDeleted, actor, auditUserDeleted{
		UserID: user.ID,
		Email:  user.Email,
	})
	c.Status(http.StatusNoContent)
}

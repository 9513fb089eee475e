package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/users"
	"coleccion-arte/internal/infra/metrics"
	"coleccion-arte/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Handler struct {
	DB     *gorm.DB
	Audit  *audit.Recorder
	Secret string
	TTL    time.Duration
}

func NewHandler(db *gorm.DB, rec *audit.Recorder, secret string, ttl time.Duration) *Handler {
	return &Handler{DB: db, Audit: rec, Secret: secret, TTL: ttl}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type auditLogin struct {
	Email string `json:"email"`
}

// POST /api/usuarios/login
//
// Unknown email and wrong password get the same answer.
func (h *Handler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Credenciales inválidas."})
		return
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		metrics.RecordLogin("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Credenciales inválidas."})
		return
	}

	var user users.User
	err := h.DB.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			apiutil.ServerError(c, err, "Error en el servidor")
			return
		}
		metrics.RecordLogin("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Credenciales inválidas."})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		logger.Warn("Failed login for %s", user.Email)
		metrics.RecordLogin("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Credenciales inválidas."})
		return
	}

	token, err := middleware.IssueToken(h.Secret, h.TTL, middleware.Claims{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	})
	if err != nil {
		apiutil.ServerError(c, err, "No se pudo generar el token")
		return
	}

	metrics.RecordLogin("success")
	h.Audit.Record(c.Request.Context(), audit.ActionLogin, audit.Actor{ID: user.ID, Email: user.Email}, auditLogin{Email: user.Email})
	c.JSON(http.StatusOK, gin.H{"token": token})
}

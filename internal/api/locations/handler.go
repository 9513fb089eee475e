package locations

import (
	"errors"
	"net/http"
	"strings"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/works"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

func NewHandler(db *gorm.DB, rec *audit.Recorder) *Handler {
	return &Handler{DB: db, Audit: rec}
}

type locationInput struct {
	Name string `json:"nombre"`
}

type auditLocation struct {
	LocationID uint   `json:"ubicacionId"`
	Name       string `json:"nombre"`
	Previous   string `json:"nombreAnterior,omitempty"`
}

// GET /api/ubicaciones
func (h *Handler) List(c *gin.Context) {
	var out []works.Location
	if err := h.DB.Order("nombre ASC").Find(&out).Error; err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/ubicaciones
func (h *Handler) Create(c *gin.Context) {
	var in locationInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es requerido."})
		return
	}
	name := strings.TrimSpace(in.Name)

	taken, err := nameTaken(h.DB, name, 0)
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Esa ubicación ya existe."})
		return
	}

	loc := works.Location{Name: name}
	if err := h.DB.Create(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Esa ubicación ya existe."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionLocationCreated, middleware.Actor(c), auditLocation{
		LocationID: loc.ID,
		Name:       loc.Name,
	})
	c.JSON(http.StatusCreated, loc)
}

// PUT /api/ubicaciones/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var in locationInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El nombre es requerido."})
		return
	}
	name := strings.TrimSpace(in.Name)

	var loc works.Location
	if err := h.DB.First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ubicación no encontrada."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	taken, err := nameTaken(h.DB, name, id)
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}
	if taken {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Esa ubicación ya existe."})
		return
	}

	previous := loc.Name
	loc.Name = name
	if err := h.DB.Save(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Esa ubicación ya existe."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	if previous != loc.Name {
		h.Audit.Record(c.Request.Context(), audit.ActionLocationEdited, middleware.Actor(c), auditLocation{
			LocationID: loc.ID,
			Name:       loc.Name,
			Previous:   previous,
		})
	}
	c.JSON(http.StatusOK, loc)
}

// DELETE /api/ubicaciones/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var loc works.Location
	if err := h.DB.First(&loc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ubicación no encontrada."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	if err := deleteLocation(h.DB, id); err != nil {
		if errors.Is(err, works.ErrLocationInUse) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No se puede eliminar la ubicación porque está asignada a una o más obras."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionLocationDeleted, middleware.Actor(c), auditLocation{
		LocationID: loc.ID,
		Name:       loc.Name,
	})
	c.Status(http.StatusNoContent)
}

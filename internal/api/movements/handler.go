package movements

import (
	"errors"
	"net/http"
	"strings"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/users"
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

// GET /api/obras/:id/movimientos
func (h *Handler) List(c *gin.Context) {
	artworkID, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var out []works.Movement
	err := h.DB.Where("obra_id = ?", artworkID).
		Order("fecha_desde DESC").
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		apiutil.ServerError(c, err, "Error al obtener los movimientos")
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/obras/:id/movimientos
//
// Records the movement, relocates the artwork and credits the actor in one
// transaction.
func (h *Handler) Create(c *gin.Context) {
	artworkID, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var in createInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de movimiento inválidos."})
		return
	}
	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida."})
		return
	}
	locationID, err := in.LocationID.Uint()
	if err != nil || locationID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La ubicación seleccionada no es válida."})
		return
	}

	actor := middleware.Actor(c)
	var (
		artwork  works.Artwork
		movement works.Movement
	)
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&artwork, artworkID).Error; err != nil {
			return err
		}

		var loc works.Location
		if err := tx.First(&loc, *locationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return works.ErrInvalidLocation
			}
			return err
		}

		movement = works.Movement{
			ArtworkID:   artworkID,
			From:        from,
			To:          to,
			Description: loc.Name,
			RecordedBy:  strings.TrimSpace(in.RecordedBy),
		}
		if err := tx.Create(&movement).Error; err != nil {
			return err
		}

		placement := strings.TrimSpace(in.Description)
		if placement == "" {
			placement = loc.Name
		}
		err := tx.Model(&works.Artwork{}).Where("id = ?", artworkID).Updates(map[string]interface{}{
			"ubicacion_id": loc.ID,
			"estado":       works.StatusForLocation(loc.Name),
			"localizacion": placement,
		}).Error
		if err != nil {
			return err
		}

		return users.AwardPoints(tx, actor.ID, users.PointsMovementRecorded)
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Obra no encontrada"})
		case errors.Is(err, works.ErrInvalidLocation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "La ubicación seleccionada no es válida."})
		default:
			apiutil.ServerError(c, err, "Error al registrar el movimiento")
		}
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionMovementRecorded, actor, newAuditMovement(&artwork, &movement))
	c.JSON(http.StatusCreated, movement)
}

// PUT /api/movimientos/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var in updateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de movimiento inválidos."})
		return
	}
	from, to, err := parseRange(in.From, in.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fecha inválida."})
		return
	}

	movement, artwork, ok := h.load(c, id)
	if !ok {
		return
	}

	movement.From = from
	movement.To = to
	movement.Description = strings.TrimSpace(in.Description)
	if err := h.DB.Save(movement).Error; err != nil {
		apiutil.ServerError(c, err, "Error al actualizar el movimiento")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionMovementEdited, middleware.Actor(c), newAuditMovement(artwork, movement))
	c.JSON(http.StatusOK, movement)
}

// DELETE /api/movimientos/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	movement, artwork, ok := h.load(c, id)
	if !ok {
		return
	}

	if err := h.DB.Delete(&works.Movement{}, movement.ID).Error; err != nil {
		apiutil.ServerError(c, err, "Error al eliminar el movimiento")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionMovementDeleted, middleware.Actor(c), newAuditMovement(artwork, movement))
	c.Status(http.StatusNoContent)
}

func (h *Handler) load(c *gin.Context, id uint) (*works.Movement, *works.Artwork, bool) {
	var m works.Movement
	if err := h.DB.Preload("Artwork").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movimiento no encontrado."})
			return nil, nil, false
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return nil, nil, false
	}
	artwork := m.Artwork
	if artwork == nil {
		artwork = &works.Artwork{ID: m.ArtworkID}
	}
	m.Artwork = nil
	return &m, artwork, true
}

package history

import (
	"net/http"
	"time"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/domain/history"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultPageSize = 15

type Handler struct {
	DB *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

type EntryResponse struct {
	ID      uint           `json:"id"`
	Date    time.Time      `json:"fecha"`
	Action  string         `json:"accion"`
	Details datatypes.JSON `json:"detalles"`
	Email   string         `json:"email"`
}

type PageResponse struct {
	Entries     []EntryResponse `json:"historial"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
}

// GET /api/historial?page=&limit=
func (h *Handler) List(c *gin.Context) {
	page, limit := apiutil.Page(c, defaultPageSize)

	var total int64
	if err := h.DB.Model(&history.Entry{}).Count(&total).Error; err != nil {
		apiutil.ServerError(c, err, "Error en el servidor al obtener el historial")
		return
	}

	var rows []history.Entry
	err := h.DB.Order("fecha DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor al obtener el historial")
		return
	}

	out := PageResponse{
		Entries:     make([]EntryResponse, 0, len(rows)),
		TotalPages:  apiutil.TotalPages(total, limit),
		CurrentPage: page,
	}
	for _, e := range rows {
		out.Entries = append(out.Entries, EntryResponse{
			ID:      e.ID,
			Date:    e.Date,
			Action:  e.Action,
			Details: e.Description,
			Email:   e.UserEmail,
		})
	}
	c.JSON(http.StatusOK, out)
}

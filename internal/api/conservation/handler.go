package conservation

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/users"
	"coleccion-arte/internal/domain/works"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Diagnoses are cut to this many characters in the history log.
const diagnosisPreview = 50

type Handler struct {
	DB    *gorm.DB
	Audit *audit.Recorder
}

func NewHandler(db *gorm.DB, rec *audit.Recorder) *Handler {
	return &Handler{DB: db, Audit: rec}
}

type reportInput struct {
	Diagnosis       string `json:"diagnostico"`
	Recommendations string `json:"recomendaciones"`
}

type ReportResponse struct {
	ID              uint      `json:"id"`
	ArtworkID       uint      `json:"obra_id"`
	UserID          *uint     `json:"usuario_id"`
	UserEmail       string    `json:"usuario_email"`
	Diagnosis       string    `json:"diagnostico"`
	Recommendations string    `json:"recomendaciones"`
	ReportedAt      time.Time `json:"fecha_informe"`
}

func toResponse(r *works.ConservationReport) ReportResponse {
	return ReportResponse{
		ID:              r.ID,
		ArtworkID:       r.ArtworkID,
		UserID:          r.UserID,
		UserEmail:       r.UserEmail(),
		Diagnosis:       r.Diagnosis,
		Recommendations: r.Recommendations,
		ReportedAt:      r.ReportedAt,
	}
}

type auditReport struct {
	ArtworkID          uint   `json:"obraId"`
	Title              string `json:"titulo"`
	RegistrationNumber string `json:"numero_registro"`
	ReportID           uint   `json:"informeId"`
	Diagnosis          string `json:"diagnostico"`
}

func newAuditReport(a *works.Artwork, r *works.ConservationReport) auditReport {
	return auditReport{
		ArtworkID:          a.ID,
		Title:              a.Title,
		RegistrationNumber: a.RegistrationNumber,
		ReportID:           r.ID,
		Diagnosis:          preview(r.Diagnosis),
	}
}

func preview(s string) string {
	runes := []rune(s)
	if len(runes) > diagnosisPreview {
		runes = runes[:diagnosisPreview]
	}
	return string(runes) + "..."
}

// GET /api/obras/:id/conservacion
func (h *Handler) List(c *gin.Context) {
	artworkID, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var rows []works.ConservationReport
	err := h.DB.Preload("User").
		Where("obra_id = ?", artworkID).
		Order("fecha_informe DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		apiutil.ServerError(c, err, "Error al obtener los informes de conservación")
		return
	}

	out := make([]ReportResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/obras/:id/conservacion
func (h *Handler) Create(c *gin.Context) {
	artworkID, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var in reportInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Diagnosis) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El diagnóstico es requerido."})
		return
	}

	actor := middleware.Actor(c)
	var (
		artwork works.Artwork
		report  works.ConservationReport
	)
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&artwork, artworkID).Error; err != nil {
			return err
		}
		report = works.ConservationReport{
			ArtworkID:       artworkID,
			Diagnosis:       strings.TrimSpace(in.Diagnosis),
			Recommendations: strings.TrimSpace(in.Recommendations),
		}
		if actor.ID != 0 {
			id := actor.ID
			report.UserID = &id
		}
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		return users.AwardPoints(tx, actor.ID, users.PointsConservationReport)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Obra no encontrada"})
			return
		}
		apiutil.ServerError(c, err, "Error al registrar el informe de conservación")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionConservationRecorded, actor, newAuditReport(&artwork, &report))

	resp := toResponse(&report)
	resp.UserEmail = actor.Email
	c.JSON(http.StatusCreated, resp)
}

// PUT /api/conservacion/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var in reportInput
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Diagnosis) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El diagnóstico es requerido."})
		return
	}

	report, artwork, ok := h.load(c, id)
	if !ok {
		return
	}

	report.Diagnosis = strings.TrimSpace(in.Diagnosis)
	report.Recommendations = strings.TrimSpace(in.Recommendations)
	err := h.DB.Model(&works.ConservationReport{}).Where("id = ?", report.ID).Updates(map[string]interface{}{
		"diagnostico":     report.Diagnosis,
		"recomendaciones": report.Recommendations,
	}).Error
	if err != nil {
		apiutil.ServerError(c, err, "Error al actualizar el informe de conservación")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionConservationEdited, middleware.Actor(c), newAuditReport(artwork, report))
	c.JSON(http.StatusOK, toResponse(report))
}

// DELETE /api/conservacion/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	report, artwork, ok := h.load(c, id)
	if !ok {
		return
	}

	if err := h.DB.Delete(&works.ConservationReport{}, report.ID).Error; err != nil {
		apiutil.ServerError(c, err, "Error al eliminar el informe de conservación")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionConservationDeleted, middleware.Actor(c), newAuditReport(artwork, report))
	c.Status(http.StatusNoContent)
}

func (h *Handler) load(c *gin.Context, id uint) (*works.ConservationReport, *works.Artwork, bool) {
	var r works.ConservationReport
	if err := h.DB.Preload("Artwork").Preload("User").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Informe de conservación no encontrado."})
			return nil, nil, false
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return nil, nil, false
	}
	artwork := r.Artwork
	if artwork == nil {
		artwork = &works.Artwork{ID: r.ArtworkID}
	}
	return &r, artwork, true
}

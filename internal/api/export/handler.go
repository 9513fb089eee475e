package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/infra/metrics"
	"coleccion-arte/internal/report"

	"github.com/gin-gonic/gin"
)

// Exporter renders a report request. *report.Assembler satisfies it.
type Exporter interface {
	Export(ctx context.Context, req report.Request) (*report.Document, error)
}

type Handler struct {
	Reports Exporter
	Audit   *audit.Recorder
}

func NewHandler(reports Exporter, rec *audit.Recorder) *Handler {
	return &Handler{Reports: reports, Audit: rec}
}

type auditExport struct {
	IDs      []uint           `json:"ids"`
	Sections []report.Section `json:"secciones"`
	Format   report.Format    `json:"formato"`
}

// POST /api/exportar-documento
func (h *Handler) Export(c *gin.Context) {
	var req report.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Faltan parámetros para la exportación."})
		return
	}
	if err := req.Validate(); err != nil {
		msg := "Faltan parámetros para la exportación."
		if !errors.Is(err, report.ErrMissingParams) {
			msg = "Parámetros de exportación inválidos."
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	doc, err := h.Reports.Export(c.Request.Context(), req)
	if err != nil {
		metrics.RecordExport(string(req.Format), false)
		apiutil.ServerError(c, err, "Error interno al generar el documento")
		return
	}
	metrics.RecordExport(string(req.Format), true)

	h.Audit.Record(c.Request.Context(), audit.ActionDocumentExported, middleware.Actor(c), auditExport{
		IDs:      req.IDs,
		Sections: req.Sections,
		Format:   req.Format,
	})

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

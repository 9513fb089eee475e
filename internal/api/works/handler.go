package works

import (
	"errors"
	"net/http"
	"strings"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/media"
	"coleccion-arte/internal/domain/users"
	"coleccion-arte/internal/domain/works"
	"coleccion-arte/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultPageSize = 12

type Handler struct {
	DB     *gorm.DB
	Audit  *audit.Recorder
	Images *media.Store
}

func NewHandler(db *gorm.DB, rec *audit.Recorder, images *media.Store) *Handler {
	return &Handler{DB: db, Audit: rec, Images: images}
}

// ------------------------------
// GET /api/estados
// ------------------------------
func (h *Handler) ListStatuses(c *gin.Context) {
	out := make([]StatusOption, 0, len(works.Statuses()))
	for _, s := range works.Statuses() {
		out = append(out, StatusOption{ID: s, Name: string(s)})
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /api/obras?search=&page=&limit=
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	page, limit := apiutil.Page(c, defaultPageSize)
	search := c.Query("search")

	var total int64
	if err := searchQuery(h.DB, search).Count(&total).Error; err != nil {
		apiutil.ServerError(c, err, "Error en el servidor al obtener las obras")
		return
	}

	var rows []works.Artwork
	err := withRelations(searchQuery(h.DB, search)).
		Select("obras.*").
		Order("obras.id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor al obtener las obras")
		return
	}

	out := ListResponse{
		Artworks:   make([]ArtworkResponse, 0, len(rows)),
		Total:      total,
		TotalPages: apiutil.TotalPages(total, limit),
	}
	for _, a := range rows {
		out.Artworks = append(out.Artworks, toArtworkResponse(a, false))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /api/obras/:id
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var a works.Artwork
	if err := withRelations(h.DB).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Obra no encontrada"})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor al obtener la obra")
		return
	}
	c.JSON(http.StatusOK, toArtworkResponse(a, true))
}

// ------------------------------
// POST /api/obras (JSON or multipart with "imagen")
// ------------------------------
func (h *Handler) Create(c *gin.Context) {
	var in ArtworkInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var a works.Artwork
	if err := in.apply(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": inputMessage(err)})
		return
	}
	if err := checkLocation(h.DB, a.LocationID); err != nil {
		h.writeLocationError(c, err)
		return
	}

	imageURL, ok := h.saveUpload(c)
	if !ok {
		return
	}
	a.ImageURL = imageURL

	actor := middleware.Actor(c)
	a.RecordedBy = actor.Email
	a.RecordedAt = nowPtr()

	if name := strings.TrimSpace(in.AuthorName); name != "" {
		author, err := resolveAuthor(h.DB, name)
		if err != nil {
			h.discardUpload(imageURL)
			apiutil.ServerError(c, err, "Error en el servidor al crear la obra")
			return
		}
		a.AuthorID = &author.ID
	}

	if err := h.DB.Omit(clause.Associations).Create(&a).Error; err != nil {
		h.discardUpload(imageURL)
		apiutil.ServerError(c, err, "Error en el servidor al crear la obra")
		return
	}

	if err := users.AwardPoints(h.DB, actor.ID, users.PointsArtworkCreated); err != nil {
		logger.Warn("award points to user %d: %v", actor.ID, err)
	}

	if err := withRelations(h.DB).First(&a, a.ID).Error; err != nil {
		apiutil.ServerError(c, err, "Error en el servidor al crear la obra")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionArtworkCreated, actor, auditSummary{
		ArtworkID:          a.ID,
		Title:              a.Title,
		AuthorName:         a.AuthorName(),
		RegistrationNumber: a.RegistrationNumber,
	})

	c.JSON(http.StatusCreated, toArtworkResponse(a, false))
}

// ------------------------------
// PUT /api/obras/:id (full overwrite, diffed against the stored row)
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var current works.Artwork
	if err := h.DB.Preload("Author").First(&current, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Obra no encontrada"})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor al actualizar la obra")
		return
	}

	var in ArtworkInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next := current
	next.Author = nil
	next.Location = nil
	if err := in.apply(&next); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": inputMessage(err)})
		return
	}
	if err := checkLocation(h.DB, next.LocationID); err != nil {
		h.writeLocationError(c, err)
		return
	}

	changes := works.Diff(&current, &next)

	if name := strings.TrimSpace(in.AuthorName); name != "" {
		if name != current.AuthorName() {
			changes = append(changes, works.FieldChange{Field: "autor", Before: current.AuthorName(), After: name})
		}
		author, err := resolveAuthor(h.DB, name)
		if err != nil {
			apiutil.ServerError(c, err, "Error en el servidor al actualizar la obra")
			return
		}
		next.AuthorID = &author.ID
	}

	imageURL, ok := h.saveUpload(c)
	if !ok {
		return
	}
	if imageURL != nil {
		before := ""
		if current.ImageURL != nil {
			before = *current.ImageURL
		}
		changes = append(changes, works.FieldChange{Field: "imagen", Before: before, After: *imageURL})
		next.ImageURL = imageURL
	}

	if err := h.DB.Omit(clause.Associations).Save(&next).Error; err != nil {
		h.discardUpload(imageURL)
		apiutil.ServerError(c, err, "Error en el servidor al actualizar la obra")
		return
	}

	if len(changes) > 0 {
		h.Audit.Record(c.Request.Context(), audit.ActionArtworkEdited, middleware.Actor(c), auditEdit{
			ArtworkID: id,
			Title:     next.Title,
			Changes:   changes,
		})
	}

	var out works.Artwork
	if err := withRelations(h.DB).First(&out, id).Error; err != nil {
		apiutil.ServerError(c, err, "Error en el servidor al actualizar la obra")
		return
	}
	c.JSON(http.StatusOK, toArtworkResponse(out, false))
}

// ------------------------------
// DELETE /api/obras/:id
// ------------------------------
func (h *Handler) Delete(c *gin.Context) {
	id, ok := apiutil.ParseID(c, "id")
	if !ok {
		return
	}

	var a works.Artwork
	if err := h.DB.Preload("Author").First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Obra no encontrada para eliminar."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	// Dependent rows go with the artwork whether or not the database enforces
	// the cascade.
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("obra_id = ?", id).Delete(&works.Movement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("obra_id = ?", id).Delete(&works.ConservationReport{}).Error; err != nil {
			return err
		}
		return tx.Delete(&works.Artwork{}, id).Error
	})
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}

	h.Audit.Record(c.Request.Context(), audit.ActionArtworkDeleted, middleware.Actor(c), auditSummary{
		ArtworkID:          a.ID,
		Title:              a.Title,
		AuthorName:         a.AuthorName(),
		RegistrationNumber: a.RegistrationNumber,
	})
	c.Status(http.StatusNoContent)
}

// saveUpload stores the optional "imagen" file. It returns nil when the
// request carries no file.
func (h *Handler) saveUpload(c *gin.Context) (*string, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, true
	}
	fh, err := c.FormFile("imagen")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Archivo de imagen inválido"})
		return nil, false
	}

	url, err := h.Images.SaveUpload(fh)
	if errors.Is(err, media.ErrNotImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El archivo no es una imagen válida"})
		return nil, false
	}
	if err != nil {
		apiutil.ServerError(c, err, "Error al procesar la imagen")
		return nil, false
	}
	return &url, true
}

// discardUpload removes an image stored for a write that did not commit.
func (h *Handler) discardUpload(url *string) {
	if url == nil {
		return
	}
	if err := h.Images.Remove(*url); err != nil {
		logger.Warn("remove orphaned image %s: %v", *url, err)
	}
}

func (h *Handler) writeLocationError(c *gin.Context, err error) {
	if errors.Is(err, works.ErrInvalidLocation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La ubicación seleccionada no es válida."})
		return
	}
	apiutil.ServerError(c, err, "Error en el servidor")
}

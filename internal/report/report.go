// Package report assembles the multi-artwork "ficha" documents exported as PDF
// or DOCX. Data for every requested artwork is fetched in three batch queries
// and grouped per artwork before rendering.
package report

import (
	"context"
	"errors"
	"fmt"

	"coleccion-arte/internal/domain/works"

	"gorm.io/gorm"
)

type Section string

const (
	SectionSheet        Section = "ficha"
	SectionMovements    Section = "movimientos"
	SectionConservation Section = "conservacion"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var (
	ErrMissingParams  = errors.New("faltan parámetros para la exportación")
	ErrUnknownSection = errors.New("sección desconocida")
	ErrUnknownFormat  = errors.New("formato desconocido")
)

// Request is the body of POST /api/exportar-documento.
type Request struct {
	IDs      []uint    `json:"ids"`
	Sections []Section `json:"secciones"`
	Format   Format    `json:"formato"`
}

// Validate checks ids and sections are present and known. An empty format
// means PDF.
func (r *Request) Validate() error {
	if len(r.IDs) == 0 || len(r.Sections) == 0 {
		return ErrMissingParams
	}
	for _, s := range r.Sections {
		switch s {
		case SectionSheet, SectionMovements, SectionConservation:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSection, s)
		}
	}
	switch r.Format {
	case "":
		r.Format = FormatPDF
	case FormatPDF, FormatDOCX:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.Format)
	}
	return nil
}

func (r Request) has(s Section) bool {
	for _, x := range r.Sections {
		if x == s {
			return true
		}
	}
	return false
}

// Document is a rendered export ready to stream.
type Document struct {
	Body        []byte
	ContentType string
	Filename    string
}

// ImageSource reads stored artwork images as JPEG.
type ImageSource interface {
	LoadJPEG(url string) ([]byte, error)
	Thumbnail(url string, w, h int) ([]byte, error)
}

type Assembler struct {
	DB       *gorm.DB
	Images   ImageSource
	Renderer PDFRenderer
	// AssetsDir holds logo.png and logo-derecho.png for the PDF header.
	AssetsDir string
}

// bundle is everything one artwork page needs.
type bundle struct {
	Artwork   works.Artwork
	Movements []works.Movement
	Reports   []works.ConservationReport
}

// Export renders the requested artworks. Any read or render failure aborts
// the whole export.
func (a *Assembler) Export(ctx context.Context, req Request) (*Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	bundles, err := a.load(ctx, req.IDs)
	if err != nil {
		return nil, fmt.Errorf("load report data: %w", err)
	}

	switch req.Format {
	case FormatDOCX:
		body, err := a.buildDOCX(bundles, req)
		if err != nil {
			return nil, fmt.Errorf("build docx: %w", err)
		}
		return &Document{
			Body:        body,
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			Filename:    "informe_completo.docx",
		}, nil
	default:
		html, err := a.buildHTML(bundles, req)
		if err != nil {
			return nil, fmt.Errorf("build html: %w", err)
		}
		body, err := a.Renderer.RenderPDF(ctx, html)
		if err != nil {
			return nil, fmt.Errorf("render pdf: %w", err)
		}
		return &Document{
			Body:        body,
			ContentType: "application/pdf",
			Filename:    "informe_completo.pdf",
		}, nil
	}
}

func (a *Assembler) load(ctx context.Context, ids []uint) ([]bundle, error) {
	db := a.DB.WithContext(ctx)

	var artworks []works.Artwork
	if err := db.Preload("Author").Preload("Location").
		Where("id IN ?", ids).
		Find(&artworks).Error; err != nil {
		return nil, err
	}

	var movements []works.Movement
	if err := db.Where("obra_id IN ?", ids).
		Order("fecha_desde DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}

	var reports []works.ConservationReport
	if err := db.Preload("User").
		Where("obra_id IN ?", ids).
		Order("fecha_informe DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*bundle, len(artworks))
	for _, art := range artworks {
		byID[art.ID] = &bundle{Artwork: art}
	}
	for _, m := range movements {
		if b, ok := byID[m.ArtworkID]; ok {
			b.Movements = append(b.Movements, m)
		}
	}
	for _, r := range reports {
		if b, ok := byID[r.ArtworkID]; ok {
			b.Reports = append(b.Reports, r)
		}
	}

	// Keep the order the caller asked for; unknown ids are skipped.
	out := make([]bundle, 0, len(byID))
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok && !seen[id] {
			out = append(out, *b)
			seen[id] = true
		}
	}
	return out, nil
}

package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"coleccion-arte/internal/domain/works"

	"github.com/fumiama/go-docx"
)

const (
	docxImageWidth  = 400
	docxImageHeight = 300
)

// buildDOCX writes a title, author line and image per artwork, followed by
// the requested movement and conservation lists.
func (a *Assembler) buildDOCX(bundles []bundle, req Request) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	for _, b := range bundles {
		if req.has(SectionSheet) {
			if err := a.docxSheet(w, &b.Artwork); err != nil {
				return nil, err
			}
		}

		if req.has(SectionMovements) && len(b.Movements) > 0 {
			w.AddParagraph().AddText("Historial de Movimientos").Bold().Size("28")
			for _, m := range b.Movements {
				w.AddParagraph().AddText(fmt.Sprintf("- %s (Desde: %s)", m.Description, displayDay(m.From, notAvailable)))
			}
		}

		if req.has(SectionConservation) && len(b.Reports) > 0 {
			w.AddParagraph().AddText("Informes de Conservación").Bold().Size("28")
			for _, r := range b.Reports {
				w.AddParagraph().AddText(fmt.Sprintf("Informe del %s:", r.ReportedAt.Format(displayDate))).Bold()
				w.AddParagraph().AddText(r.Diagnosis)
			}
		}

		w.AddParagraph()
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Assembler) docxSheet(w *docx.Docx, art *works.Artwork) error {
	w.AddParagraph().AddText(art.Title).Bold().Size("32")

	p := w.AddParagraph()
	p.AddText("Autor: ").Bold()
	p.AddText(orNA(art.AuthorName()))

	if art.ImageURL == nil || *art.ImageURL == "" {
		return nil
	}
	img, err := a.Images.Thumbnail(*art.ImageURL, docxImageWidth, docxImageHeight)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := w.AddParagraph().AddInlineDrawing(img); err != nil {
		return fmt.Errorf("embed image for obra %d: %w", art.ID, err)
	}
	return nil
}

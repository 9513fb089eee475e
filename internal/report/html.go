package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"errors"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"coleccion-arte/internal/domain/works"
)

//go:embed templates/informe.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/informe.html.tmpl"))

const (
	displayDate  = "02/01/2006"
	notAvailable = "N/A"
)

type documentView struct {
	LeftLogo  template.URL
	RightLogo template.URL
	Pages     []pageView
}

type pageView struct {
	Sheet     *sheetView
	Movements []movementView
	Reports   []reportView
}

type sheetView struct {
	Title     string
	Author    string
	Fields    []fieldView
	Image     template.URL
	ImageNote string
}

type fieldView struct {
	Label string
	Value string
}

type movementView struct {
	Description string
	From        string
	To          string
}

type reportView struct {
	Date            string
	Email           string
	Diagnosis       string
	Recommendations string
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func displayDay(t *time.Time, empty string) string {
	if t == nil {
		return empty
	}
	return t.Format(displayDate)
}

// buildHTML renders one .pagina block per artwork. Movement and conservation
// blocks appear only when requested and the artwork has records for them.
func (a *Assembler) buildHTML(bundles []bundle, req Request) (string, error) {
	left, err := a.logo("logo.png")
	if err != nil {
		return "", err
	}
	right, err := a.logo("logo-derecho.png")
	if err != nil {
		return "", err
	}

	doc := documentView{LeftLogo: left, RightLogo: right, Pages: make([]pageView, 0, len(bundles))}
	for _, b := range bundles {
		var page pageView
		if req.has(SectionSheet) {
			sheet, err := a.sheet(&b.Artwork)
			if err != nil {
				return "", err
			}
			page.Sheet = sheet
		}
		if req.has(SectionMovements) {
			for _, m := range b.Movements {
				page.Movements = append(page.Movements, movementView{
					Description: m.Description,
					From:        displayDay(m.From, notAvailable),
					To:          displayDay(m.To, "Presente"),
				})
			}
		}
		if req.has(SectionConservation) {
			for _, r := range b.Reports {
				recs := r.Recommendations
				if recs == "" {
					recs = "Ninguna."
				}
				page.Reports = append(page.Reports, reportView{
					Date:            r.ReportedAt.Format(displayDate),
					Email:           orNA(r.UserEmail()),
					Diagnosis:       orNA(r.Diagnosis),
					Recommendations: recs,
				})
			}
		}
		doc.Pages = append(doc.Pages, page)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (a *Assembler) sheet(art *works.Artwork) (*sheetView, error) {
	title := art.Title
	if title == "" {
		title = "Sin Título"
	}
	author := art.AuthorName()
	if author == "" {
		author = "Autor Desconocido"
	}

	s := &sheetView{
		Title:  title,
		Author: author,
		Fields: []fieldView{
			{"N° de Registro:", orNA(art.RegistrationNumber)},
			{"Categoría:", orNA(art.Category)},
			{"Fecha de Creación:", orNA(art.CreationDate)},
			{"Dimensiones:", orNA(art.Dimensions)},
			{"Técnica/Materiales:", orNA(art.Technique)},
			{"Estado de Conservación:", orNA(art.ConservationState)},
			{"Estado Actual:", orNA(string(art.Status))},
			{"Ubicación:", orNA(art.LocationName())},
		},
		ImageNote: "Sin imagen disponible",
	}

	if art.ImageURL == nil || *art.ImageURL == "" {
		return s, nil
	}
	data, err := a.Images.LoadJPEG(*art.ImageURL)
	if errors.Is(err, os.ErrNotExist) {
		s.ImageNote = "Archivo de imagen no encontrado."
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	s.Image = template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data))
	return s, nil
}

// logo returns a PNG data URI, or "" when the file is not present.
func (a *Assembler) logo(name string) (template.URL, error) {
	data, err := os.ReadFile(filepath.Join(a.AssetsDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data)), nil
}

package works

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/domain/works"
)

var errInvalidInput = errors.New("invalid input")

// ArtworkInput is the artwork form, sent either as JSON or as multipart with
// an optional "imagen" file. Numeric fields accept strings or numbers.
type ArtworkInput struct {
	Title              string `json:"titulo" form:"titulo"`
	AuthorName         string `json:"autor_nombre" form:"autor_nombre"`
	RegistrationNumber string `json:"numero_registro" form:"numero_registro"`
	CreationDate       string `json:"fecha_creacion" form:"fecha_creacion"`
	Category           string `json:"categoria" form:"categoria"`
	Technique          string `json:"tecnica_materiales" form:"tecnica_materiales"`
	Dimensions         string `json:"dimensiones" form:"dimensiones"`
	ConservationState  string `json:"estado_conservacion" form:"estado_conservacion"`
	Status             string `json:"estado" form:"estado"`

	LocationID apiutil.FlexString `json:"ubicacion_id" form:"ubicacion_id"`

	MountingDescription string `json:"descripcion_montaje" form:"descripcion_montaje"`
	GeneralNotes        string `json:"observaciones_generales" form:"observaciones_generales"`

	OriginalOwner string             `json:"propietario_original" form:"propietario_original"`
	Provenance    string             `json:"procedencia" form:"procedencia"`
	ApprovedBy    string             `json:"ingreso_aprobado_por" form:"ingreso_aprobado_por"`
	InitialValue  apiutil.FlexString `json:"valor_inicial" form:"valor_inicial"`
	ValueUSD      apiutil.FlexString `json:"valor_usd" form:"valor_usd"`
	AppraisalDate string             `json:"fecha_avaluo" form:"fecha_avaluo"`
	ReviewedBy    string             `json:"registro_revisado_por" form:"registro_revisado_por"`
}

// apply overwrites every form-controlled column of a. Author and image are
// handled by the caller.
func (in *ArtworkInput) apply(a *works.Artwork) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: el título es requerido", errInvalidInput)
	}

	status, err := works.ParseStatus(in.Status)
	if err != nil {
		return fmt.Errorf("%w: estado inválido", errInvalidInput)
	}
	locationID, err := in.LocationID.Uint()
	if err != nil {
		return fmt.Errorf("%w: ubicación inválida", errInvalidInput)
	}
	initial, err := works.ParseAmount(in.InitialValue.String())
	if err != nil {
		return fmt.Errorf("%w: valor inicial inválido", errInvalidInput)
	}
	usd, err := works.ParseAmount(in.ValueUSD.String())
	if err != nil {
		return fmt.Errorf("%w: valor USD inválido", errInvalidInput)
	}
	appraisal, err := works.ParseDate(strings.TrimSpace(in.AppraisalDate))
	if err != nil {
		return fmt.Errorf("%w: fecha de avalúo inválida", errInvalidInput)
	}

	a.Title = title
	a.RegistrationNumber = in.RegistrationNumber
	a.CreationDate = in.CreationDate
	a.Category = in.Category
	a.Technique = in.Technique
	a.Dimensions = in.Dimensions
	a.ConservationState = in.ConservationState
	a.Status = status
	a.LocationID = locationID
	a.MountingDescription = in.MountingDescription
	a.GeneralNotes = in.GeneralNotes
	a.OriginalOwner = in.OriginalOwner
	a.Provenance = in.Provenance
	a.ApprovedBy = in.ApprovedBy
	a.InitialValue = initial
	a.ValueUSD = usd
	a.AppraisalDate = appraisal
	a.ReviewedBy = in.ReviewedBy
	return nil
}

func inputMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), errInvalidInput.Error()+": ")
	if msg == "" {
		return "Datos inválidos"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// auditSummary is the description stored for create and delete entries.
type auditSummary struct {
	ArtworkID          uint   `json:"obraId"`
	Title              string `json:"titulo"`
	AuthorName         string `json:"autor_nombre"`
	RegistrationNumber string `json:"numero_registro"`
}

type auditEdit struct {
	ArtworkID uint                `json:"obraId"`
	Title     string              `json:"titulo"`
	Changes   []works.FieldChange `json:"cambios"`
}

func nowPtr() *time.Time {
	t := time.Now()
	return &t
}

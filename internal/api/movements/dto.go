package movements

import (
	"errors"
	"time"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/domain/works"
)

var errInvalidDate = errors.New("invalid date")

type createInput struct {
	From        string             `json:"fecha_desde"`
	To          string             `json:"fecha_hasta"`
	Description string             `json:"descripcion"`
	RecordedBy  string             `json:"registrado_por"`
	LocationID  apiutil.FlexString `json:"ubicacion_id"`
}

type updateInput struct {
	From        string `json:"fecha_desde"`
	To          string `json:"fecha_hasta"`
	Description string `json:"descripcion"`
}

func parseRange(from, to string) (*time.Time, *time.Time, error) {
	f, err := works.ParseDate(from)
	if err != nil {
		return nil, nil, errInvalidDate
	}
	t, err := works.ParseDate(to)
	if err != nil {
		return nil, nil, errInvalidDate
	}
	return f, t, nil
}

type auditMovement struct {
	ArtworkID          uint   `json:"obraId"`
	Title              string `json:"titulo"`
	RegistrationNumber string `json:"numero_registro"`
	MovementID         uint   `json:"movimientoId"`
	Description        string `json:"descripcion"`
}

func newAuditMovement(a *works.Artwork, m *works.Movement) auditMovement {
	return auditMovement{
		ArtworkID:          a.ID,
		Title:              a.Title,
		RegistrationNumber: a.RegistrationNumber,
		MovementID:         m.ID,
		Description:        m.Description,
	}
}

// Package audit writes the change log. Every mutating action records exactly
// one entry; a failed write is logged and counted but never fails the request
// that triggered it.
package audit

import (
	"context"
	"encoding/json"

	"coleccion-arte/internal/domain/history"
	"coleccion-arte/internal/infra/metrics"
	"coleccion-arte/internal/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Action string

const (
	ActionLogin                Action = "Login"
	ActionArtworkCreated       Action = "Creación de Obra"
	ActionArtworkEdited        Action = "Edición de Obra"
	ActionArtworkDeleted       Action = "Eliminación de Obra"
	ActionMovementRecorded     Action = "Registro de Movimiento"
	ActionMovementEdited       Action = "Edición de Movimiento"
	ActionMovementDeleted      Action = "Eliminación de Movimiento"
	ActionConservationRecorded Action = "Registro de Conservación"
	ActionConservationEdited   Action = "Edición de Conservación"
	ActionConservationDeleted  Action = "Eliminación de Conservación"
	ActionLocationCreated      Action = "Creación de Ubicación"
	ActionLocationEdited       Action = "Edición de Ubicación"
	ActionLocationDeleted      Action = "Eliminación de Ubicación"
	ActionUserCreated          Action = "Creación de Usuario"
	ActionUserDeleted          Action = "Eliminación de Usuario"
	ActionRoleChanged          Action = "Cambio de Rol"
	ActionBackup               Action = "Respaldo de Base de Datos"
	ActionDocumentExported     Action = "Exportación de Documento"
)

// Actor is who performed an action, taken from the verified token.
type Actor struct {
	ID    uint
	Email string
}

type Recorder struct {
	DB *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{DB: db}
}

// Record appends one history entry. A string description is stored as a JSON
// string; anything else is marshalled as is.
func (r *Recorder) Record(ctx context.Context, action Action, actor Actor, description any) {
	payload, err := encode(description)
	if err != nil {
		logger.Error("audit %q: encode description: %v", action, err)
		metrics.RecordHistoryEntry(string(action), false)
		return
	}

	entry := history.Entry{
		Action:      string(action),
		UserEmail:   actor.Email,
		Description: payload,
	}
	if actor.ID != 0 {
		id := actor.ID
		entry.UserID = &id
	}

	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		logger.Error("audit %q by %s: %v", action, actor.Email, err)
		metrics.RecordHistoryEntry(string(action), false)
		return
	}
	metrics.RecordHistoryEntry(string(action), true)
}

func encode(description any) (datatypes.JSON, error) {
	if raw, ok := description.(json.RawMessage); ok {
		return datatypes.JSON(raw), nil
	}
	b, err := json.Marshal(description)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

package history

import (
	"time"

	"gorm.io/datatypes"
)

// Entry is one row of the append-only change log. Rows are never updated or
// deleted by the application.
type Entry struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Action      string         `gorm:"column:accion;not null;index" json:"accion"`
	UserID      *uint          `gorm:"column:usuario_id;index" json:"usuario_id"`
	UserEmail   string         `gorm:"column:usuario_email" json:"email"`
	Date        time.Time      `gorm:"column:fecha;autoCreateTime;index" json:"fecha"`
	Description datatypes.JSON `gorm:"column:descripcion" json:"detalles"`
}

func (Entry) TableName() string { return "historial_cambios" }

package works

import (
	"time"

	"coleccion-arte/internal/domain/users"
)

type ConservationReport struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	ArtworkID       uint        `gorm:"column:obra_id;not null;index" json:"obra_id"`
	Artwork         *Artwork    `gorm:"foreignKey:ArtworkID;constraint:OnDelete:CASCADE;" json:"-"`
	UserID          *uint       `gorm:"column:usuario_id;index" json:"usuario_id"`
	User            *users.User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL;" json:"-"`
	Diagnosis       string      `gorm:"column:diagnostico" json:"diagnostico"`
	Recommendations string      `gorm:"column:recomendaciones" json:"recomendaciones"`
	ReportedAt      time.Time   `gorm:"column:fecha_informe;autoCreateTime" json:"fecha_informe"`
}

func (ConservationReport) TableName() string { return "conservacion" }

func (r *ConservationReport) UserEmail() string {
	if r.User == nil {
		return ""
	}
	return r.User.Email
}

package works

import "time"

// Movement places an artwork somewhere for [From, To). A nil To means "until now".
type Movement struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ArtworkID   uint       `gorm:"column:obra_id;not null;index" json:"obra_id"`
	Artwork     *Artwork   `gorm:"foreignKey:ArtworkID;constraint:OnDelete:CASCADE;" json:"-"`
	From        *time.Time `gorm:"column:fecha_desde;type:date" json:"fecha_desde"`
	To          *time.Time `gorm:"column:fecha_hasta;type:date" json:"fecha_hasta"`
	Description string     `gorm:"column:descripcion" json:"descripcion"`
	RecordedBy  string     `gorm:"column:registrado_por" json:"registrado_por"`
}

func (Movement) TableName() string { return "movimientos" }

package works

import (
	"time"
)

type Artwork struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title              string  `gorm:"column:titulo;not null" json:"titulo"`
	AuthorID           *uint   `gorm:"column:autor_id;index" json:"autor_id"`
	Author             *Author `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	RegistrationNumber string  `gorm:"column:numero_registro;index" json:"numero_registro"`
	CreationDate       string  `gorm:"column:fecha_creacion" json:"fecha_creacion"`
	Category           string  `gorm:"column:categoria;index" json:"categoria"`
	Technique          string  `gorm:"column:tecnica_materiales" json:"tecnica_materiales"`
	Dimensions         string  `gorm:"column:dimensiones" json:"dimensiones"`
	ConservationState  string  `gorm:"column:estado_conservacion" json:"estado_conservacion"`
	Status             Status  `gorm:"column:estado;type:varchar(40);index" json:"estado"`

	LocationID *uint     `gorm:"column:ubicacion_id;index" json:"ubicacion_id"`
	Location   *Location `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Placement  string    `gorm:"column:localizacion" json:"localizacion"`

	MountingDescription string `gorm:"column:descripcion_montaje" json:"descripcion_montaje"`
	GeneralNotes        string `gorm:"column:observaciones_generales" json:"observaciones_generales"`

	OriginalOwner string     `gorm:"column:propietario_original" json:"propietario_original"`
	Provenance    string     `gorm:"column:procedencia" json:"procedencia"`
	ApprovedBy    string     `gorm:"column:ingreso_aprobado_por" json:"ingreso_aprobado_por"`
	InitialValue  *float64   `gorm:"column:valor_inicial" json:"valor_inicial"`
	ValueUSD      *float64   `gorm:"column:valor_usd" json:"valor_usd"`
	AppraisalDate *time.Time `gorm:"column:fecha_avaluo;type:date" json:"fecha_avaluo"`

	ImageURL *string `gorm:"column:url_imagen" json:"url_imagen"`

	RecordedBy string     `gorm:"column:registro_realizado_por" json:"registro_realizado_por"`
	ReviewedBy string     `gorm:"column:registro_revisado_por" json:"registro_revisado_por"`
	RecordedAt *time.Time `gorm:"column:fecha_realizacion" json:"fecha_realizacion"`
}

func (Artwork) TableName() string { return "obras" }

// AuthorName is empty when the artwork has no author loaded.
func (a *Artwork) AuthorName() string {
	if a.Author == nil {
		return ""
	}
	return a.Author.Name
}

func (a *Artwork) LocationName() string {
	if a.Location == nil {
		return ""
	}
	return a.Location.Name
}

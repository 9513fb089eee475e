package works

type Location struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nombre;not null;uniqueIndex:idx_ubicaciones_nombre" json:"nombre"`
}

func (Location) TableName() string { return "ubicaciones" }

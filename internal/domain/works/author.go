package works

type Author struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Name      string  `gorm:"column:nombre;not null;index" json:"nombre"`
	Biography *string `gorm:"column:biografia" json:"biografia"`
}

func (Author) TableName() string { return "autores" }

package works

import (
	"errors"
	"strings"

	"coleccion-arte/internal/domain/works"

	"gorm.io/gorm"
)

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Location")
}

// searchQuery matches title, author name or registration number,
// case-insensitively.
func searchQuery(db *gorm.DB, term string) *gorm.DB {
	q := db.Model(&works.Artwork{}).
		Joins("LEFT JOIN autores ON autores.id = obras.autor_id")
	term = strings.TrimSpace(term)
	if term == "" {
		return q
	}
	like := "%" + strings.ToLower(term) + "%"
	return q.Where(
		"LOWER(obras.titulo) LIKE ? OR LOWER(autores.nombre) LIKE ? OR LOWER(obras.numero_registro) LIKE ?",
		like, like, like,
	)
}

// resolveAuthor finds an author by name, ignoring case, or creates one.
func resolveAuthor(db *gorm.DB, name string) (*works.Author, error) {
	name = strings.TrimSpace(name)
	var author works.Author
	err := db.Where("LOWER(nombre) = LOWER(?)", name).First(&author).Error
	if err == nil {
		return &author, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	author = works.Author{Name: name}
	if err := db.Create(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

func checkLocation(db *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := db.Model(&works.Location{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return works.ErrInvalidLocation
	}
	return nil
}

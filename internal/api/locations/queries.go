package locations

import (
	"errors"
	"strings"

	"coleccion-arte/internal/domain/works"

	"gorm.io/gorm"
)

func nameTaken(db *gorm.DB, name string, exceptID uint) (bool, error) {
	var n int64
	err := db.Model(&works.Location{}).
		Where("LOWER(nombre) = LOWER(?) AND id <> ?", strings.TrimSpace(name), exceptID).
		Count(&n).Error
	return n > 0, err
}

// deleteLocation removes an unreferenced location. A location still assigned
// to an artwork is left untouched and ErrLocationInUse is returned.
func deleteLocation(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&works.Artwork{}).Where("ubicacion_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return works.ErrLocationInUse
		}
		err := tx.Delete(&works.Location{}, id).Error
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return works.ErrLocationInUse
		}
		return err
	})
}

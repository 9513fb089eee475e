package users

import (
	"time"

	"coleccion-arte/internal/domain/access"

	"gorm.io/gorm"
)

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Email        string      `gorm:"not null;uniqueIndex:idx_usuarios_email" json:"email"`
	PasswordHash string      `gorm:"column:password_hash;not null" json:"-"`
	Role         access.Role `gorm:"column:rol;type:varchar(20);not null;default:'lector'" json:"rol"`
	Points       int         `gorm:"column:puntos;not null;default:0" json:"puntos"`

	CreatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "usuarios" }

// Points awarded for contributions to the catalogue.
const (
	PointsArtworkCreated     = 10
	PointsMovementRecorded   = 5
	PointsConservationReport = 5
)

// AwardPoints adds pts to the user's score. A zero id is ignored.
func AwardPoints(db *gorm.DB, userID uint, pts int) error {
	if userID == 0 {
		return nil
	}
	return db.Model(&User{}).
		Where("id = ?", userID).
		UpdateColumn("puntos", gorm.Expr("puntos + ?", pts)).Error
}

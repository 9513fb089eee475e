package database

import (
	"fmt"

	"coleccion-arte/internal/domain/history"
	"coleccion-arte/internal/domain/users"
	"coleccion-arte/internal/domain/works"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config is shared by every connection so unique and foreign-key violations
// surface as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Config() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), Config())
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&works.Author{},
		&works.Location{},
		&works.Artwork{},
		&works.Movement{},
		&works.ConservationReport{},
		&history.Entry{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

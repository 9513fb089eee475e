// Package testutil builds the in-memory database and tokens handler tests
// share.
package testutil

import (
	"testing"
	"time"

	"coleccion-arte/database"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/domain/access"
	"coleccion-arte/internal/domain/users"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const Secret = "test-secret"

// NewDB opens a private in-memory SQLite database with the full schema. The
// pool is pinned to one connection so every query sees the same database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := database.Config()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	db, err := gorm.Open(sqlite.Open("file::memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user whose password is "password123".
func CreateUser(t *testing.T, db *gorm.DB, email string, role access.Role) users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := users.User{Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func Token(t *testing.T, u users.User) string {
	t.Helper()
	tok, err := middleware.IssueToken(Secret, time.Hour, middleware.Claims{ID: u.ID, Email: u.Email, Role: u.Role})
	require.NoError(t, err)
	return "Bearer " + tok
}

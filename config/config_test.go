package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/arte")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "uploads", cfg.UploadsDir)
	assert.Equal(t, 30*time.Second, cfg.StatsTTL)
	assert.Equal(t, "postgres://u:p@localhost:5432/arte", cfg.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DATABASE", "coleccion")
	t.Setenv("DB_USER", "arte")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("LOGIN_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 3, cfg.LoginBurst)
	assert.Equal(t, "postgres://arte:pw@localhost:5432/coleccion?sslmode=disable", cfg.DSN())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_URL", "postgres://localhost/arte")

	_, err := Load()
	assert.Error(t, err)
}

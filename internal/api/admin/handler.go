package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/history"
	"coleccion-arte/internal/domain/users"
	"coleccion-arte/internal/domain/works"
	"coleccion-arte/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const backupTimeout = 60 * time.Second

type Handler struct {
	DB                 *gorm.DB
	Audit              *audit.Recorder
	MasterPasswordHash string
	BackupDir          string

	now      func() time.Time
	backupMu sync.Mutex
}

func NewHandler(db *gorm.DB, rec *audit.Recorder, masterHash, backupDir string) *Handler {
	return &Handler{
		DB:                 db,
		Audit:              rec,
		MasterPasswordHash: masterHash,
		BackupDir:          backupDir,
		now:                time.Now,
	}
}

type masterPasswordInput struct {
	MasterPassword string `json:"masterPassword"`
}

// POST /api/admin/verify-master-password
func (h *Handler) VerifyMasterPassword(c *gin.Context) {
	var in masterPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil || in.MasterPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se proporcionó la contraseña maestra."})
		return
	}
	if h.MasterPasswordHash == "" {
		logger.Error("verify-master-password: MASTER_PASSWORD_HASH is not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error en el servidor al verificar la contraseña."})
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(h.MasterPasswordHash), []byte(in.MasterPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Contraseña maestra incorrecta."})
			return
		}
		apiutil.ServerError(c, err, "Error en el servidor al verificar la contraseña.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Snapshot is the content of a backup file. Password hashes are left out.
type Snapshot struct {
	CreatedAt    time.Time                  `json:"generado"`
	Users        []snapshotUser             `json:"usuarios"`
	Authors      []works.Author             `json:"autores"`
	Locations    []works.Location           `json:"ubicaciones"`
	Artworks     []works.Artwork            `json:"obras"`
	Movements    []works.Movement           `json:"movimientos"`
	Conservation []works.ConservationReport `json:"conservacion"`
	History      []history.Entry            `json:"historial"`
}

type snapshotUser struct {
	ID     uint   `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"rol"`
	Points int    `json:"puntos"`
}

type auditBackup struct {
	File string `json:"archivo"`
}

// POST /api/admin/backup
//
// One backup runs at a time; a concurrent request gets 429.
func (h *Handler) Backup(c *gin.Context) {
	if !h.backupMu.TryLock() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Ya hay un respaldo en curso."})
		return
	}
	defer h.backupMu.Unlock()

	ctx, cancel := context.WithTimeout(c.Request.Context(), backupTimeout)
	defer cancel()

	snap, err := h.snapshot(ctx)
	if err != nil {
		apiutil.ServerError(c, err, "Error al generar el respaldo")
		return
	}

	path, err := h.writeSnapshot(snap)
	if err != nil {
		apiutil.ServerError(c, err, "Error al generar el respaldo")
		return
	}
	logger.Success("Backup written to %s", path)

	name := filepath.Base(path)
	h.Audit.Record(c.Request.Context(), audit.ActionBackup, middleware.Actor(c), auditBackup{File: name})
	c.JSON(http.StatusCreated, gin.H{"success": true, "archivo": name})
}

func (h *Handler) snapshot(ctx context.Context) (*Snapshot, error) {
	db := h.DB.WithContext(ctx)
	snap := &Snapshot{CreatedAt: h.now().UTC()}

	var us []users.User
	if err := db.Order("id").Find(&us).Error; err != nil {
		return nil, fmt.Errorf("usuarios: %w", err)
	}
	snap.Users = make([]snapshotUser, 0, len(us))
	for _, u := range us {
		snap.Users = append(snap.Users, snapshotUser{ID: u.ID, Email: u.Email, Role: string(u.Role), Points: u.Points})
	}

	tables := []struct {
		name string
		dst  interface{}
	}{
		{"autores", &snap.Authors},
		{"ubicaciones", &snap.Locations},
		{"obras", &snap.Artworks},
		{"movimientos", &snap.Movements},
		{"conservacion", &snap.Conservation},
		{"historial_cambios", &snap.History},
	}
	for _, t := range tables {
		if err := db.Order("id").Find(t.dst).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", t.name, err)
		}
	}
	return snap, nil
}

func (h *Handler) writeSnapshot(snap *Snapshot) (string, error) {
	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("respaldo_%s.json", snap.CreatedAt.Format("20060102_150405"))
	path := filepath.Join(h.BackupDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

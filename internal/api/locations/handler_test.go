package locations

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/access"
	"coleccion-arte/internal/domain/history"
	"coleccion-arte/internal/domain/users"
	"coleccion-arte/internal/domain/works"
	"coleccion-arte/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) (*gorm.DB, *gin.Engine, users.User) {
	t.Helper()
	db := testutil.NewDB(t)
	h := NewHandler(db, audit.NewRecorder(db))

	r := gin.New()
	r.GET("/api/ubicaciones", middleware.Authorize(testutil.Secret, access.AllUsers...), h.List)
	admin := r.Group("/api/ubicaciones", middleware.Authorize(testutil.Secret, access.AdminsOnly...))
	admin.POST("", h.Create)
	admin.PUT("/:id", h.Update)
	admin.DELETE("/:id", h.Delete)

	return db, r, testutil.CreateUser(t, db, "admin@museo.org", access.RoleAdmin)
}

func send(t *testing.T, r *gin.Engine, method, url string, u users.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", testutil.Token(t, u))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateListAndDuplicate(t *testing.T) {
	db, r, admin := setup(t)

	w := send(t, r, http.MethodPost, "/api/ubicaciones", admin, gin.H{"nombre": "Sala de Exhibición"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = send(t, r, http.MethodPost, "/api/ubicaciones", admin, gin.H{"nombre": "Depósito"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = send(t, r, http.MethodPost, "/api/ubicaciones", admin, gin.H{"nombre": "depósito"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = send(t, r, http.MethodPost, "/api/ubicaciones", admin, gin.H{"nombre": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(t, r, http.MethodGet, "/api/ubicaciones", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out []works.Location
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "Depósito", out[0].Name)

	var n int64
	require.NoError(t, db.Model(&history.Entry{}).Where("accion = ?", string(audit.ActionLocationCreated)).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestUpdate(t *testing.T) {
	db, r, admin := setup(t)
	a := works.Location{Name: "Sala A"}
	b := works.Location{Name: "Sala B"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	w := send(t, r, http.MethodPut, "/api/ubicaciones/"+itoa(a.ID), admin, gin.H{"nombre": "Sala Principal"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sala Principal")

	w = send(t, r, http.MethodPut, "/api/ubicaciones/"+itoa(a.ID), admin, gin.H{"nombre": "Sala B"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(t, r, http.MethodPut, "/api/ubicaciones/999", admin, gin.H{"nombre": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete_ReferencedLocationIsKept(t *testing.T) {
	db, r, admin := setup(t)
	loc := works.Location{Name: "Depósito central"}
	require.NoError(t, db.Create(&loc).Error)
	require.NoError(t, db.Create(&works.Artwork{Title: "Guardada", LocationID: &loc.ID, Status: works.StatusStorage}).Error)

	w := send(t, r, http.MethodDelete, "/api/ubicaciones/"+itoa(loc.ID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var n int64
	require.NoError(t, db.Model(&works.Location{}).Where("id = ?", loc.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestDelete_Unreferenced(t *testing.T) {
	db, r, admin := setup(t)
	loc := works.Location{Name: "Bodega"}
	require.NoError(t, db.Create(&loc).Error)

	w := send(t, r, http.MethodDelete, "/api/ubicaciones/"+itoa(loc.ID), admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var n int64
	require.NoError(t, db.Model(&works.Location{}).Count(&n).Error)
	assert.Zero(t, n)

	w = send(t, r, http.MethodDelete, "/api/ubicaciones/"+itoa(loc.ID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMutationsAreAdminOnly(t *testing.T) {
	db, r, _ := setup(t)
	editor := testutil.CreateUser(t, db, "ed@museo.org", access.RoleEditor)

	w := send(t, r, http.MethodPost, "/api/ubicaciones", editor, gin.H{"nombre": "X"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = send(t, r, http.MethodGet, "/api/ubicaciones", editor, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

package export

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/access"
	"coleccion-arte/internal/domain/history"
	"coleccion-arte/internal/domain/users"
	"coleccion-arte/internal/report"
	"coleccion-arte/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeExporter struct {
	got report.Request
	err error
}

func (f *fakeExporter) Export(_ context.Context, req report.Request) (*report.Document, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &report.Document{Body: []byte("%PDF"), ContentType: "application/pdf", Filename: "informe_completo.pdf"}, nil
}

func setup(t *testing.T, exp Exporter) (*gorm.DB, *gin.Engine, users.User) {
	t.Helper()
	db := testutil.NewDB(t)
	r := gin.New()
	r.POST("/api/exportar-documento", middleware.Authorize(testutil.Secret, access.AllUsers...), NewHandler(exp, audit.NewRecorder(db)).Export)
	return db, r, testutil.CreateUser(t, db, "lector@museo.org", access.RoleLector)
}

func post(t *testing.T, r *gin.Engine, u users.User, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/exportar-documento", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", testutil.Token(t, u))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExport_StreamsDocument(t *testing.T) {
	exp := &fakeExporter{}
	db, r, u := setup(t, exp)

	w := post(t, r, u, `{"ids":[3,1],"secciones":["ficha"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="informe_completo.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF", w.Body.String())

	assert.Equal(t, []uint{3, 1}, exp.got.IDs)
	assert.Equal(t, report.FormatPDF, exp.got.Format)

	var e history.Entry
	require.NoError(t, db.Where("accion = ?", string(audit.ActionDocumentExported)).First(&e).Error)
	assert.JSONEq(t, `{"ids":[3,1],"secciones":["ficha"],"formato":"pdf"}`, string(e.Description))
}

func TestExport_BadRequests(t *testing.T) {
	_, r, u := setup(t, &fakeExporter{})

	for _, body := range []string{
		`{}`,
		`{"ids":[],"secciones":["ficha"]}`,
		`{"ids":[1],"secciones":[]}`,
		`{"ids":[1],"secciones":["ficha"],"formato":"xls"}`,
		`{"ids":[1],"secciones":["anexos"]}`,
		`not json`,
	} {
		w := post(t, r, u, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestExport_RenderFailure(t *testing.T) {
	db, r, u := setup(t, &fakeExporter{err: errors.New("chrome crashed")})

	w := post(t, r, u, `{"ids":[1],"secciones":["ficha"],"formato":"pdf"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error interno al generar el documento")

	var n int64
	require.NoError(t, db.Model(&history.Entry{}).Count(&n).Error)
	assert.Zero(t, n)
}

package works

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/access"
	"coleccion-arte/internal/domain/history"
	"coleccion-arte/internal/domain/media"
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

type fixture struct {
	db     *gorm.DB
	router *gin.Engine
	editor users.User
	reader users.User
	images *media.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	images := media.NewStore(t.TempDir())
	h := NewHandler(db, audit.NewRecorder(db), images)

	r := gin.New()
	all := r.Group("/api", middleware.Authorize(testutil.Secret, access.AllUsers...))
	all.GET("/estados", h.ListStatuses)
	all.GET("/obras", h.List)
	all.GET("/obras/:id", h.Get)
	editors := r.Group("/api", middleware.Authorize(testutil.Secret, access.EditorsAndAdmins...))
	editors.POST("/obras", h.Create)
	editors.PUT("/obras/:id", h.Update)
	editors.DELETE("/obras/:id", h.Delete)

	return &fixture{
		db:     db,
		router: r,
		editor: testutil.CreateUser(t, db, "editor@museo.org", access.RoleEditor),
		reader: testutil.CreateUser(t, db, "lector@museo.org", access.RoleLector),
		images: images,
	}
}

func (f *fixture) do(t *testing.T, method, url string, u users.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, rdr)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", testutil.Token(t, u))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) create(t *testing.T, body map[string]interface{}) ArtworkResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/obras", f.editor, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out ArtworkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (f *fixture) entries(t *testing.T, action audit.Action) []history.Entry {
	t.Helper()
	var out []history.Entry
	require.NoError(t, f.db.Where("accion = ?", string(action)).Order("id").Find(&out).Error)
	return out
}

func TestListStatuses(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/estados", f.reader, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []StatusOption
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 6)
	assert.Equal(t, works.StatusStorage, out[0].ID)
	assert.Equal(t, "En depósito", out[0].Name)
}

func TestCreate_AuthorLookupPointsAndAudit(t *testing.T) {
	f := newFixture(t)

	first := f.create(t, map[string]interface{}{"titulo": "Las dos Fridas", "autor_nombre": "Frida Kahlo", "estado": "En depósito", "valor_inicial": 1500})
	second := f.create(t, map[string]interface{}{"titulo": "Diego y yo", "autor_nombre": "frida kahlo"})

	assert.Equal(t, "Frida Kahlo", first.AuthorName)
	assert.Equal(t, "Frida Kahlo", second.AuthorName)
	assert.Equal(t, *first.AuthorID, *second.AuthorID)
	assert.Equal(t, "editor@museo.org", first.RecordedBy)
	assert.NotNil(t, first.RecordedAt)
	assert.Equal(t, works.StatusOther, second.Status)
	require.NotNil(t, first.InitialValue)
	assert.Equal(t, 1500.0, *first.InitialValue)

	var editor users.User
	require.NoError(t, f.db.First(&editor, f.editor.ID).Error)
	assert.Equal(t, 2*users.PointsArtworkCreated, editor.Points)

	created := f.entries(t, audit.ActionArtworkCreated)
	require.Len(t, created, 2)
	var desc map[string]interface{}
	require.NoError(t, json.Unmarshal(created[0].Description, &desc))
	assert.Equal(t, "Las dos Fridas", desc["titulo"])
	assert.Equal(t, "Frida Kahlo", desc["autor_nombre"])
	assert.Equal(t, float64(first.ID), desc["obraId"])
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/obras", f.editor, map[string]interface{}{"autor_nombre": "X"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/obras", f.editor, map[string]interface{}{"titulo": "A", "ubicacion_id": 99})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ubicación")

	w = f.do(t, http.MethodPost, "/api/obras", f.editor, map[string]interface{}{"titulo": "A", "estado": "Perdida"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/obras", f.editor, map[string]interface{}{"titulo": "A", "valor_usd": "mucho"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_ReaderForbidden(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/obras", f.reader, map[string]interface{}{"titulo": "A"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreate_MultipartWithImage(t *testing.T) {
	f := newFixture(t)

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("titulo", "Autorretrato"))
	require.NoError(t, mw.WriteField("valor_usd", "250.5"))
	fw, err := mw.CreateFormFile("imagen", "foto.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(fw, image.NewRGBA(image.Rect(0, 0, 20, 10))))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/obras", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", testutil.Token(t, f.editor))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out ArtworkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotNil(t, out.ImageURL)
	assert.True(t, strings.HasPrefix(*out.ImageURL, media.URLPrefix))
	_, err = os.Stat(f.images.Path(*out.ImageURL))
	assert.NoError(t, err)
	require.NotNil(t, out.ValueUSD)
	assert.Equal(t, 250.5, *out.ValueUSD)
}

func TestCreate_FailedInsertRemovesImage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("fail_obras", func(tx *gorm.DB) {
		if tx.Statement.Table == "obras" {
			_ = tx.AddError(errors.New("insert rejected"))
		}
	}))

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	require.NoError(t, mw.WriteField("titulo", "Autorretrato"))
	fw, err := mw.CreateFormFile("imagen", "foto.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(fw, image.NewRGBA(image.Rect(0, 0, 20, 10))))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/obras", buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", testutil.Token(t, f.editor))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())

	files, err := os.ReadDir(f.images.Dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUpdate_TitleChangeRecordsOneDiff(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, map[string]interface{}{"titulo": "Old"})

	w := f.do(t, http.MethodPut, "/api/obras/"+itoa(a.ID), f.editor, map[string]interface{}{"titulo": "New", "estado": "Otro"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	edits := f.entries(t, audit.ActionArtworkEdited)
	require.Len(t, edits, 1)

	var desc struct {
		ArtworkID uint                `json:"obraId"`
		Title     string              `json:"titulo"`
		Changes   []works.FieldChange `json:"cambios"`
	}
	require.NoError(t, json.Unmarshal(edits[0].Description, &desc))
	assert.Equal(t, a.ID, desc.ArtworkID)
	assert.Equal(t, "New", desc.Title)
	assert.Equal(t, []works.FieldChange{{Field: "titulo", Before: "Old", After: "New"}}, desc.Changes)
}

func TestUpdate_NoChangesWritesNoEntry(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, map[string]interface{}{
		"titulo": "Quieta", "autor_nombre": "Ana", "estado": "En préstamo",
		"valor_inicial": 1500, "fecha_avaluo": "2023-05-10", "categoria": "Pintura",
	})

	w := f.do(t, http.MethodPut, "/api/obras/"+itoa(a.ID), f.editor, map[string]interface{}{
		"titulo": "Quieta", "autor_nombre": "Ana", "estado": "En préstamo",
		"valor_inicial": "1500.00", "fecha_avaluo": "2023-05-10", "categoria": "Pintura",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, f.entries(t, audit.ActionArtworkEdited))
}

func TestUpdate_SeveralFieldsOneEntry(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, map[string]interface{}{"titulo": "A", "autor_nombre": "Ana", "categoria": "Pintura"})

	w := f.do(t, http.MethodPut, "/api/obras/"+itoa(a.ID), f.editor, map[string]interface{}{
		"titulo": "B", "autor_nombre": "Beto", "categoria": "Grabado", "estado": "En tránsito", "dimensiones": "30x40",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out ArtworkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Beto", out.AuthorName)

	edits := f.entries(t, audit.ActionArtworkEdited)
	require.Len(t, edits, 1)
	var desc struct {
		Changes []works.FieldChange `json:"cambios"`
	}
	require.NoError(t, json.Unmarshal(edits[0].Description, &desc))
	fields := make([]string, 0, len(desc.Changes))
	for _, ch := range desc.Changes {
		fields = append(fields, ch.Field)
	}
	assert.Equal(t, []string{"titulo", "estado", "categoria", "dimensiones", "autor"}, fields)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPut, "/api/obras/999", f.editor, map[string]interface{}{"titulo": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSearchAndPaginate(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 13; i++ {
		f.create(t, map[string]interface{}{"titulo": "Serie " + itoa(uint(i)), "numero_registro": "R-" + itoa(uint(i))})
	}
	f.create(t, map[string]interface{}{"titulo": "Paisaje", "autor_nombre": "José María Velasco"})

	w := f.do(t, http.MethodGet, "/api/obras", f.reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page1 ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page1))
	assert.Equal(t, int64(14), page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	require.Len(t, page1.Artworks, 12)
	assert.Equal(t, "Paisaje", page1.Artworks[0].Title)

	w = f.do(t, http.MethodGet, "/api/obras?page=2", f.reader, nil)
	var page2 ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page2))
	assert.Len(t, page2.Artworks, 2)

	w = f.do(t, http.MethodGet, "/api/obras?search=velasco", f.reader, nil)
	var byAuthor ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byAuthor))
	require.Len(t, byAuthor.Artworks, 1)
	assert.Equal(t, "José María Velasco", byAuthor.Artworks[0].AuthorName)

	w = f.do(t, http.MethodGet, "/api/obras?search=r-12", f.reader, nil)
	var byNumber ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byNumber))
	assert.Equal(t, int64(1), byNumber.Total)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	bio := "Pintor paisajista"
	author := works.Author{Name: "Velasco", Biography: &bio}
	require.NoError(t, f.db.Create(&author).Error)
	loc := works.Location{Name: "Sala 1"}
	require.NoError(t, f.db.Create(&loc).Error)
	a := works.Artwork{Title: "Valle", AuthorID: &author.ID, LocationID: &loc.ID, Status: works.StatusExhibition}
	require.NoError(t, f.db.Create(&a).Error)

	w := f.do(t, http.MethodGet, "/api/obras/"+itoa(a.ID), f.reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Valle", out["titulo"])
	assert.Equal(t, "Velasco", out["autor_nombre"])
	assert.Equal(t, "Pintor paisajista", out["autor_biografia"])
	assert.Equal(t, "Sala 1", out["ubicacion_nombre"])

	w = f.do(t, http.MethodGet, "/api/obras/12345", f.reader, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	a := f.create(t, map[string]interface{}{"titulo": "Efímera"})
	require.NoError(t, f.db.Create(&works.Movement{ArtworkID: a.ID, Description: "Sala"}).Error)

	w := f.do(t, http.MethodDelete, "/api/obras/"+itoa(a.ID), f.editor, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var n int64
	require.NoError(t, f.db.Model(&works.Artwork{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&works.Movement{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Len(t, f.entries(t, audit.ActionArtworkDeleted), 1)

	w = f.do(t, http.MethodDelete, "/api/obras/"+itoa(a.ID), f.editor, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

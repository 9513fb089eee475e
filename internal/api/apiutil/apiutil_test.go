package apiutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
		D FlexString `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"12","b":1500.5,"c":null,"d":" x "}`), &v))
	assert.Equal(t, "12", v.A.String())
	assert.Equal(t, "1500.5", v.B.String())
	assert.Equal(t, "", v.C.String())
	assert.Equal(t, "x", v.D.String())

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}

func TestFlexString_Uint(t *testing.T) {
	id, err := FlexString("7").Uint()
	require.NoError(t, err)
	assert.Equal(t, uint(7), *id)

	id, err = FlexString("").Uint()
	require.NoError(t, err)
	assert.Nil(t, id)

	_, err = FlexString("0").Uint()
	assert.Error(t, err)
	_, err = FlexString("abc").Uint()
	assert.Error(t, err)
}

func TestPageAndTotalPages(t *testing.T) {
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		p, l := Page(c, 12)
		c.JSON(http.StatusOK, gin.H{"page": p, "limit": l})
	})

	cases := map[string]string{
		"/x":                   `{"page":1,"limit":12}`,
		"/x?page=3&limit=5":    `{"page":3,"limit":5}`,
		"/x?page=-1&limit=abc": `{"page":1,"limit":12}`,
		"/x?limit=1000":        `{"page":1,"limit":100}`,
	}
	for url, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
		assert.JSONEq(t, want, w.Body.String(), url)
	}

	assert.Equal(t, 0, TotalPages(0, 12))
	assert.Equal(t, 1, TotalPages(12, 12))
	assert.Equal(t, 2, TotalPages(13, 12))
}

func TestParseID(t *testing.T) {
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		id, ok := ParseID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/9", nil))
	assert.JSONEq(t, `{"id":9}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x/nine", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

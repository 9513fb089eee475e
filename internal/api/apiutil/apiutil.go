// Package apiutil holds the small request helpers every handler package uses.
package apiutil

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"coleccion-arte/internal/logger"

	"github.com/gin-gonic/gin"
)

// ParseID reads a positive integer path parameter, answering 400 when it is
// not one.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return 0, false
	}
	return uint(id), true
}

// ServerError logs err and answers 500 with a generic message.
func ServerError(c *gin.Context, err error, msg string) {
	logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// Page reads page and limit query values, falling back to 1 and def.
func Page(c *gin.Context, def int) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = def
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// FlexString binds a JSON string, number or null, and plain form values, into
// a string. Clients send ids and amounts either way.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", s)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return strings.TrimSpace(string(f)) }

// Uint parses the value as an id. Empty yields nil.
func (f FlexString) Uint() (*uint, error) {
	s := f.String()
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return nil, fmt.Errorf("invalid id %q", s)
	}
	id := uint(n)
	return &id, nil
}

package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

const maxMultipartMemory = 32 << 20

// Fields passed through untouched; stripping would change what the user typed.
var rawFields = map[string]bool{
	"password":        true,
	"master_password": true,
	"masterPassword":  true,
}

// SanitizeAndCleanInputMiddleware strips markup from every string value in a
// JSON or multipart body, including nested objects and arrays. Empty bodies
// and other content types pass through.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		contentType := c.ContentType()
		switch {
		case strings.HasPrefix(contentType, "multipart/form-data"):
			if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Formulario inválido"})
				return
			}
			if mf := c.Request.MultipartForm; mf != nil {
				sanitizeValues(policy, mf.Value)
			}
			sanitizeValues(policy, c.Request.PostForm)
			sanitizeValues(policy, c.Request.Form)

		case contentType == "" || strings.HasPrefix(contentType, "application/json"):
			buf, err := io.ReadAll(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
				return
			}
			if len(bytes.TrimSpace(buf)) == 0 {
				c.Request.Body = io.NopCloser(bytes.NewReader(buf))
				c.Next()
				return
			}

			var body interface{}
			if err := json.Unmarshal(buf, &body); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
				return
			}
			body = sanitizeJSON(policy, "", body)

			newBody, _ := json.Marshal(body)
			c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
			c.Request.ContentLength = int64(len(newBody))
		}

		c.Next()
	}
}

func sanitizeJSON(policy *bluemonday.Policy, key string, v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		if rawFields[key] {
			return t
		}
		return stripTags(policy, t)
	case map[string]interface{}:
		for k, inner := range t {
			t[k] = sanitizeJSON(policy, k, inner)
		}
		return t
	case []interface{}:
		for i, inner := range t {
			t[i] = sanitizeJSON(policy, key, inner)
		}
		return t
	default:
		return v
	}
}

func sanitizeValues(policy *bluemonday.Policy, values map[string][]string) {
	for k, vs := range values {
		if rawFields[k] {
			continue
		}
		for i, v := range vs {
			vs[i] = stripTags(policy, v)
		}
	}
}

// stripTags removes markup but keeps plain text as typed. bluemonday escapes
// &, ' and " in what it returns, so the result is unescaped and stripped again
// until stable; entity-encoded tags do not come back as markup.
func stripTags(policy *bluemonday.Policy, s string) string {
	for i := 0; i < 4; i++ {
		next := html.UnescapeString(policy.Sanitize(s))
		if next == s {
			break
		}
		s = next
	}
	return s
}

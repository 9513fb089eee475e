package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"coleccion-arte/internal/api/apiutil"
	"coleccion-arte/internal/domain/works"
	"coleccion-arte/internal/infra/cache"
	"coleccion-arte/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Cache keys. Values expire after Handler.TTL or when a write passes through
// InvalidateOnWrite.
const (
	statsKey      = "dashboard:stats"
	categoriesKey = "dashboard:categories"
)

const uncategorized = "Sin categoría"

type Handler struct {
	DB    *gorm.DB
	Cache cache.Cache
	TTL   time.Duration
}

func NewHandler(db *gorm.DB, c cache.Cache, ttl time.Duration) *Handler {
	return &Handler{DB: db, Cache: c, TTL: ttl}
}

type Stats struct {
	Total       int64 `json:"totalObras"`
	Storage     int64 `json:"enDeposito"`
	Exhibition  int64 `json:"enExhibicion"`
	Restoration int64 `json:"enRestauracion"`
	Other       int64 `json:"enOtro"`
}

type CategoryCount struct {
	Category string `json:"categoria"`
	Total    int64  `json:"total"`
}

// GET /api/dashboard/stats
func (h *Handler) Stats(c *gin.Context) {
	var out Stats
	err := h.cached(c.Request.Context(), statsKey, &out, func() (interface{}, error) {
		return h.countStats()
	})
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/dashboard/categories
func (h *Handler) Categories(c *gin.Context) {
	out := []CategoryCount{}
	err := h.cached(c.Request.Context(), categoriesKey, &out, func() (interface{}, error) {
		return h.countCategories()
	})
	if err != nil {
		apiutil.ServerError(c, err, "Error en el servidor")
		return
	}
	c.JSON(http.StatusOK, out)
}

// InvalidateOnWrite drops the cached counters after a successful write to
// artworks or movements.
func (h *Handler) InvalidateOnWrite() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if h.Cache == nil || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		ctx := c.Request.Context()
		h.Cache.Delete(ctx, statsKey)
		h.Cache.Delete(ctx, categoriesKey)
	}
}

func (h *Handler) countStats() (*Stats, error) {
	var s Stats
	if err := h.DB.Model(&works.Artwork{}).Count(&s.Total).Error; err != nil {
		return nil, err
	}
	for status, dst := range map[works.Status]*int64{
		works.StatusStorage:     &s.Storage,
		works.StatusExhibition:  &s.Exhibition,
		works.StatusRestoration: &s.Restoration,
		works.StatusOther:       &s.Other,
	} {
		if err := h.DB.Model(&works.Artwork{}).Where("estado = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}

func (h *Handler) countCategories() ([]CategoryCount, error) {
	var rows []CategoryCount
	err := h.DB.Model(&works.Artwork{}).
		Select("COALESCE(NULLIF(TRIM(categoria), ''), ?) AS category, COUNT(*) AS total", uncategorized).
		Group("category").
		Order("total DESC").
		Order("category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []CategoryCount{}
	}
	return rows, nil
}

// cached decodes key into dst, or runs load, stores its JSON and decodes that.
// A corrupt cache entry is treated as a miss.
func (h *Handler) cached(ctx context.Context, key string, dst interface{}, load func() (interface{}, error)) error {
	if h.Cache != nil {
		if data, ok := h.Cache.Get(ctx, key); ok {
			if err := json.Unmarshal(data, dst); err == nil {
				return nil
			}
			logger.Warn("cache %s: discarding unreadable entry", key)
		}
	}

	v, err := load()
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if h.Cache != nil {
		h.Cache.Set(ctx, key, data, h.TTL)
	}
	return json.Unmarshal(data, dst)
}

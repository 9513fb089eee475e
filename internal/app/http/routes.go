package routes

import (
	"net/http"

	"coleccion-arte/config"
	adminapi "coleccion-arte/internal/api/admin"
	authapi "coleccion-arte/internal/api/auth"
	conservationapi "coleccion-arte/internal/api/conservation"
	dashboardapi "coleccion-arte/internal/api/dashboard"
	exportapi "coleccion-arte/internal/api/export"
	historyapi "coleccion-arte/internal/api/history"
	locationsapi "coleccion-arte/internal/api/locations"
	movementsapi "coleccion-arte/internal/api/movements"
	usersapi "coleccion-arte/internal/api/users"
	worksapi "coleccion-arte/internal/api/works"
	"coleccion-arte/internal/app/http/middleware"
	"coleccion-arte/internal/audit"
	"coleccion-arte/internal/domain/access"
	"coleccion-arte/internal/domain/media"
	"coleccion-arte/internal/infra/cache"
	"coleccion-arte/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Deps is everything the handlers share.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Cache    cache.Cache
	Registry *prometheus.Registry
	Renderer report.PDFRenderer
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	rec := audit.NewRecorder(d.DB)
	images := media.NewStore(cfg.UploadsDir)

	auth := authapi.NewHandler(d.DB, rec, cfg.JWTSecret, cfg.JWTTTL)
	users := usersapi.NewHandler(d.DB, rec)
	works := worksapi.NewHandler(d.DB, rec, images)
	movements := movementsapi.NewHandler(d.DB, rec)
	conservation := conservationapi.NewHandler(d.DB, rec)
	locations := locationsapi.NewHandler(d.DB, rec)
	history := historyapi.NewHandler(d.DB)
	dashboard := dashboardapi.NewHandler(d.DB, d.Cache, cfg.StatsTTL)
	admin := adminapi.NewHandler(d.DB, rec, cfg.MasterPasswordHash, cfg.BackupDir)
	export := exportapi.NewHandler(&report.Assembler{
		DB:        d.DB,
		Images:    images,
		Renderer:  d.Renderer,
		AssetsDir: cfg.AssetsDir,
	}, rec)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))
	}

	r.Static("/uploads", cfg.UploadsDir)
	r.Static("/assets", cfg.AssetsDir)

	api := r.Group("/api")
	api.Use(middleware.SanitizeAndCleanInputMiddleware())

	loginLimiter := middleware.NewIPRateLimiter(cfg.LoginRate, cfg.LoginBurst)
	api.POST("/usuarios/login", loginLimiter.Middleware(), auth.Login)

	gate := func(roles ...access.Role) gin.HandlerFunc {
		return middleware.Authorize(cfg.JWTSecret, roles...)
	}

	// Any authenticated user
	all := api.Group("/", gate(access.AllUsers...))
	all.GET("/usuarios/me", users.Me)
	all.GET("/estados", works.ListStatuses)
	all.GET("/obras", works.List)
	all.GET("/obras/:id", works.Get)
	all.GET("/obras/:id/movimientos", movements.List)
	all.GET("/obras/:id/conservacion", conservation.List)
	all.GET("/ubicaciones", locations.List)
	all.GET("/dashboard/stats", dashboard.Stats)
	all.GET("/dashboard/categories", dashboard.Categories)
	all.POST("/exportar-documento", export.Export)

	// Catalogue editing
	editors := api.Group("/", gate(access.EditorsAndAdmins...))
	editors.POST("/admin/verify-master-password", admin.VerifyMasterPassword)

	catalogue := editors.Group("/", dashboard.InvalidateOnWrite())
	catalogue.POST("/obras", works.Create)
	catalogue.PUT("/obras/:id", works.Update)
	catalogue.DELETE("/obras/:id", works.Delete)
	catalogue.POST("/obras/:id/movimientos", movements.Create)
	catalogue.PUT("/movimientos/:id", movements.Update)
	catalogue.DELETE("/movimientos/:id", movements.Delete)

	// Conservation reports
	content := api.Group("/", gate(access.ContentEditors...))
	content.POST("/obras/:id/conservacion", conservation.Create)
	content.PUT("/conservacion/:id", conservation.Update)
	content.DELETE("/conservacion/:id", conservation.Delete)

	// Admin only
	admins := api.Group("/", gate(access.AdminsOnly...))
	admins.GET("/usuarios", users.List)
	admins.POST("/usuarios/registrar", users.Register)
	admins.PUT("/usuarios/:id/rol", users.ChangeRole)
	admins.DELETE("/usuarios/:id", users.Delete)
	admins.POST("/ubicaciones", locations.Create)
	admins.PUT("/ubicaciones/:id", locations.Update)
	admins.DELETE("/ubicaciones/:id", locations.Delete)
	admins.GET("/historial", history.List)
	admins.POST("/admin/backup", admin.Backup)
}

package main

import (
	"time"

	"coleccion-arte/config"
	"coleccion-arte/database"
	routes "coleccion-arte/internal/app/http"
	"coleccion-arte/internal/infra/cache"
	"coleccion-arte/internal/infra/metrics"
	"coleccion-arte/internal/logger"
	"coleccion-arte/internal/report"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Configuration error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Open(cfg.DSN())
	if err != nil {
		logger.Fatal("Database error: %v", err)
	}
	logger.Success("Connected to database")

	if cfg.MasterPasswordHash == "" {
		logger.Warn("MASTER_PASSWORD_HASH is not set; master password checks will fail")
	}

	reg := metrics.InitRegistry()
	metrics.RegisterBusinessMetrics(reg)

	store := cache.New(cfg.RedisAddr, cfg.RedisPassword)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(metrics.HTTPMetricsMiddleware(reg))

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Cache:    store,
		Registry: reg,
		Renderer: report.NewChromeRenderer(cfg.ChromePath),
	})

	logger.ServerStart(cfg.Port, cfg.CORSOrigin)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server stopped: %v", err)
	}
}

package handlers

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"selfie-filter-backend/internal/filters"
	"selfie-filter-backend/internal/middleware"
	"selfie-filter-backend/internal/services"
)

type RouterConfig struct {
	Service *services.PhotoService
	Catalog *filters.Catalog
	Logger  *slog.Logger

	// UploadDir is served under UploadURLPrefix.
	UploadDir       string
	UploadURLPrefix string

	MaxUploadBytes int64
	MaxJSONBytes   int64
}

// NewRouter wires every route of the API onto a fresh gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	photosHandler := NewPhotosHandler(cfg.Service)
	uploadHandler := NewUploadHandler(cfg.Service)
	filtersHandler := NewFiltersHandler(cfg.Catalog)

	router.GET("/health", HealthHandler)
	router.Static(cfg.UploadURLPrefix, cfg.UploadDir)

	api := router.Group("/api")
	api.GET("/health", HealthHandler)
	api.GET("/filtros", filtersHandler.GetFilters)

	fotos := api.Group("/fotos")
	fotos.GET("", photosHandler.ListPhotos)
	fotos.GET("/:id", photosHandler.GetPhoto)
	fotos.POST("", middleware.BodyLimit(cfg.MaxJSONBytes), photosHandler.CreatePhoto)
	fotos.PUT("/:id", middleware.BodyLimit(cfg.MaxJSONBytes), photosHandler.UpdatePhoto)
	fotos.DELETE("/:id", photosHandler.DeletePhoto)
	fotos.POST("/upload", middleware.BodyLimit(cfg.MaxUploadBytes), uploadHandler.Upload)
	fotos.POST("/upload-base64", middleware.BodyLimit(cfg.MaxJSONBytes), uploadHandler.UploadBase64)

	return router
}

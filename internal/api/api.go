// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/wms-stockout/internal/api/handlers"
	"github.com/andresuchdata/wms-stockout/internal/api/middleware"
	"github.com/andresuchdata/wms-stockout/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	StockoutService *service.StockoutService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services != nil && services.StockoutService != nil {
		h := handlers.NewStockoutHandler(services.StockoutService)

		apiGroup.GET("/masters/:name", h.GetMaster)
		apiGroup.GET("/dictionaries", h.GetDictionaries)
		apiGroup.GET("/quality", h.GetQuality)

		datasetGroup := apiGroup.Group("/dataset")
		{
			datasetGroup.GET("", h.GetDataset)
			datasetGroup.GET("/summary", h.GetDatasetSummary)
		}

		modelGroup := apiGroup.Group("/model")
		{
			modelGroup.POST("/train", h.Train)
			modelGroup.GET("/metrics", h.GetMetrics)
			modelGroup.GET("/runs", h.GetRuns)
		}

		predictGroup := apiGroup.Group("/predict")
		{
			predictGroup.GET("/keys", h.GetPredictKeys)
			predictGroup.POST("/snapshot", h.PredictSnapshot)
			predictGroup.POST("/form", h.PredictForm)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

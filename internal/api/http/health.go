package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Dataset   string    `json:"dataset"`
	Cache     string    `json:"cache"`
}

// DatasetProbe reports whether the survey table is already in memory.
type DatasetProbe func() bool

type HealthHandler struct {
	serviceName string
	version     string
	cache       *redis.Client
	dataset     DatasetProbe
}

// NewHealthHandler builds the handler. cache and dataset may be nil.
func NewHealthHandler(serviceName, version string, cache *redis.Client, dataset DatasetProbe) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		cache:       cache,
		dataset:     dataset,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	cacheStatus := "disabled"
	if h.cache != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.cache.Ping(pingCtx).Err(); err != nil {
			cacheStatus = "down"
		} else {
			cacheStatus = "up"
		}
	}

	datasetStatus := "unknown"
	if h.dataset != nil {
		datasetStatus = "not_loaded"
		if h.dataset() {
			datasetStatus = "loaded"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Dataset:   datasetStatus,
		Cache:     cacheStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

package bootstrap

import (
	"time"

	httpapi "github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/api/http"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	dashhttp "github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/http"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	Dashboard      *service.DashboardService
	Catalog        *domain.Catalog
	Redis          *redis.Client
	DatasetLoaded  httpapi.DatasetProbe
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis, dep.DatasetLoaded)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())
	api.Use(middleware.RateLimitMiddleware(dep.RateLimitRPS, dep.RateLimitBurst))

	dashHandler := dashhttp.New(dep.Dashboard, dep.Catalog)
	dashHandler.Register(api.Group("/dashboard"))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/dataset"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	SetGinMode("test")

	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte("Business Size,Business Sector,Cyber Resilience,ISU:q1\nSmall,Retail,Yes,1\n"), 0o644))

	catalog := domain.CanonicalCatalog()
	loader := dataset.NewLoader(catalog)
	svc, err := service.NewDashboardService(loader, nil, service.Options{DatasetPath: path})
	require.NoError(t, err)

	return BuildRouter(RouterDeps{
		ServiceName:   "cyber-dashboard",
		Version:       "test",
		CORSOrigins:   origins,
		Dashboard:     svc,
		Catalog:       catalog,
		DatasetLoaded: func() bool { return loader.Cached(path) },
	})
}

func TestBuildRouter_Routes(t *testing.T) {
	r := buildTestRouter(t, nil)

	for _, target := range []string{"/health", "/api/v1/dashboard/dataset", "/api/v1/dashboard/tabs/size"} {
		rr := httptest.NewRecorder()
		req, err := http.NewRequest(http.MethodGet, target, nil)
		require.NoError(t, err)
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, target)
	}
}

func TestBuildRouter_RequestIDOnAPI(t *testing.T) {
	r := buildTestRouter(t, nil)

	rr := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/api/v1/dashboard/dataset", nil)
	require.NoError(t, err)
	r.ServeHTTP(rr, req)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestBuildRouter_CORS(t *testing.T) {
	r := buildTestRouter(t, []string{"https://dash.example.org"})

	rr := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/api/v1/dashboard/dataset", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://dash.example.org")
	r.ServeHTTP(rr, req)
	assert.Equal(t, "https://dash.example.org", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	req, err = http.NewRequest(http.MethodGet, "/api/v1/dashboard/dataset", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example.org")
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://a.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example"}, cfg.AllowOrigins)
}

package http

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/chart"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/service"
	"github.com/gin-gonic/gin"
)

// GetDataset returns row counts, filter options and domain coverage
func (h *Handler) GetDataset(c *gin.Context) {
	ov, err := h.svc.Overview(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataset": ov})
}

// PostDatasetReload re-reads the dataset file
func (h *Handler) PostDatasetReload(c *gin.Context) {
	ov, err := h.svc.Reload(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataset": ov})
}

// GetPreview returns the first rows of the filtered dataset
func (h *Handler) GetPreview(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	p, err := h.svc.Preview(c.Request.Context(), filterFromQuery(c), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview": p})
}

// GetScores returns the wide group x domain table
func (h *Handler) GetScores(c *gin.Context) {
	q, ok := h.scoreQuery(c)
	if !ok {
		return
	}
	rows, err := h.svc.Scores(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scoresResponse{GroupBy: q.GroupBy, Mode: q.Mode, Domains: q.Domains, Rows: rows})
}

// GetLongScores returns the same table as (group, domain, score) triples
func (h *Handler) GetLongScores(c *gin.Context) {
	q, ok := h.scoreQuery(c)
	if !ok {
		return
	}
	points, err := h.svc.LongScores(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, longResponse{GroupBy: q.GroupBy, Mode: q.Mode, Points: points})
}

// GetTab returns the table behind one dimension tab
func (h *Handler) GetTab(c *gin.Context) {
	q, ok := h.tabQuery(c)
	if !ok {
		return
	}
	rows, err := h.svc.Scores(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scoresResponse{GroupBy: q.GroupBy, Mode: q.Mode, Domains: q.Domains, Rows: rows})
}

// PostTabRadar returns radar traces for the selected tab rows
func (h *Handler) PostTabRadar(c *gin.Context) {
	q, ok := h.tabQuery(c)
	if !ok {
		return
	}

	// an empty body, chunked or not, selects every row
	var body radarRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	traces, err := h.svc.Radar(c.Request.Context(), q, body.Selected)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := radarResponse{Title: "Domains by " + q.GroupBy, Traces: traces}
	if q.Mode == domain.ScoreYesPercentage {
		rmax := 100.0
		resp.RMax = &rmax
	}
	c.JSON(http.StatusOK, resp)
}

// GetTabChart renders one group of a tab as a PNG bar chart
func (h *Handler) GetTabChart(c *gin.Context) {
	q, ok := h.tabQuery(c)
	if !ok {
		return
	}
	group := strings.TrimSpace(c.Query("group"))
	if group == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group is required"})
		return
	}

	row, err := h.svc.GroupScores(c.Request.Context(), q, group)
	if err != nil {
		h.fail(c, err)
		return
	}
	png, err := chart.BarPNG(*row, q.Mode)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) scoreQuery(c *gin.Context) (service.ScoreQuery, bool) {
	q := service.ScoreQuery{
		GroupBy: domain.ResolveDimension(c.Query("by")),
		Filter:  filterFromQuery(c),
		Mode:    h.svc.DefaultMode(),
		Domains: h.svc.DefaultDomains(),
	}
	if raw := c.Query("mode"); raw != "" {
		q.Mode = domain.ScoreMode(raw)
		if !q.Mode.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid mode %q", raw)})
			return q, false
		}
	}
	if raw, ok := c.GetQuery("domains"); ok {
		codes, err := h.catalog.ParseCodes(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return q, false
		}
		if len(codes) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "select at least one domain"})
			return q, false
		}
		q.Domains = codes
	}
	return q, true
}

func (h *Handler) tabQuery(c *gin.Context) (service.ScoreQuery, bool) {
	dim := strings.ToLower(c.Param("dimension"))
	if dim != "size" && dim != "sector" {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown dimension"})
		return service.ScoreQuery{}, false
	}
	return h.svc.TabQuery(dim), true
}

func filterFromQuery(c *gin.Context) domain.Filter {
	return domain.Filter{
		domain.ColumnBusinessSize:    c.Query("size"),
		domain.ColumnBusinessSector:  c.Query("sector"),
		domain.ColumnCyberResilience: c.Query("resilience"),
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownColumn),
		errors.Is(err, domain.ErrUnknownDomain),
		errors.Is(err, domain.ErrInvalidScoreMode),
		errors.Is(err, domain.ErrInvalidSelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrGroupNotFound), errors.Is(err, chart.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, fs.ErrNotExist):
		log.Printf("[dataset] request %s: load failed: %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataset unavailable"})
	default:
		log.Printf("[dashboard] request %s failed: %v", middleware.GetRequestID(c.Request.Context()), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute scores"})
	}
}

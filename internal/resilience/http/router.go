package http

import "github.com/gin-gonic/gin"

// Register registers the dashboard routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dataset", h.GetDataset)
	rg.POST("/dataset/reload", h.PostDatasetReload)
	rg.GET("/preview", h.GetPreview)
	rg.GET("/scores", h.GetScores)
	rg.GET("/scores/long", h.GetLongScores)
	rg.GET("/tabs/:dimension", h.GetTab)
	rg.POST("/tabs/:dimension/radar", h.PostTabRadar)
	rg.GET("/tabs/:dimension/chart.png", h.GetTabChart)
}

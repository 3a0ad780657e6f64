package http

import (
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/domain"
	"github.com/GoSim-25-26J-441/cyber-resilience-dashboard/internal/resilience/service"
)

// Handler serves the dashboard endpoints for both front-ends
type Handler struct {
	svc     *service.DashboardService
	catalog *domain.Catalog
}

// New creates a new Handler
func New(svc *service.DashboardService, catalog *domain.Catalog) *Handler {
	return &Handler{svc: svc, catalog: catalog}
}

type radarRequest struct {
	Selected []int `json:"selected"`
}

type scoresResponse struct {
	GroupBy string                 `json:"group_by"`
	Mode    domain.ScoreMode       `json:"mode"`
	Domains []domain.DomainCode    `json:"domains"`
	Rows    []domain.GroupScoreRow `json:"rows"`
}

type longResponse struct {
	GroupBy string             `json:"group_by"`
	Mode    domain.ScoreMode   `json:"mode"`
	Points  []domain.LongPoint `json:"points"`
}

type radarResponse struct {
	Title  string              `json:"title"`
	RMax   *float64            `json:"r_max,omitempty"`
	Traces []domain.RadarTrace `json:"traces"`
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtydir/directory-api/internal/core/domain"
	"github.com/realtydir/directory-api/internal/core/ports"
)

type statsResponse struct {
	Users        int64                 `json:"users"`
	Agencies     int64                 `json:"agencies"`
	Listings     int64                 `json:"listings"`
	Images       int64                 `json:"images"`
	AveragePrice float64               `json:"averagePrice"`
	UsersByRole  map[domain.Role]int64 `json:"usersByRole"`
}

// dashboardResponse flattens the agent slice into the top level so agents
// see myListings/myListingsWithImages alongside the general totals.
type dashboardResponse struct {
	TotalListings        int64  `json:"totalListings"`
	TotalAgencies        int64  `json:"totalAgencies"`
	MyListings           *int64 `json:"myListings,omitempty"`
	MyListingsWithImages *int64 `json:"myListingsWithImages,omitempty"`
}

// StatsHandler exposes the aggregation engine.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Stats handles GET /v1/stats — admin only.
//
// @Summary      Directory statistics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      403  {object}  errorEnvelope
// @Router       /v1/stats [get]
func (h *StatsHandler) Stats(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.service.ComputeStats(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statsResponse{
		Users:        stats.Users,
		Agencies:     stats.Agencies,
		Listings:     stats.Listings,
		Images:       stats.Images,
		AveragePrice: stats.AveragePrice,
		UsersByRole:  stats.UsersByRole,
	})
}

// Dashboard handles GET /v1/stats/dashboard — any authenticated caller.
//
// @Summary      Role-sensitive dashboard
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorEnvelope
// @Router       /v1/stats/dashboard [get]
func (h *StatsHandler) Dashboard(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	dash, err := h.service.ComputeDashboard(c.Request().Context(), id)
	if err != nil {
		return err
	}

	resp := dashboardResponse{
		TotalListings: dash.TotalListings,
		TotalAgencies: dash.TotalAgencies,
	}
	if dash.Agent != nil {
		resp.MyListings = &dash.Agent.MyListings
		resp.MyListingsWithImages = &dash.Agent.MyListingsWithImages
	}
	return c.JSON(http.StatusOK, resp)
}

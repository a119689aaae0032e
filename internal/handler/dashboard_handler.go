package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pa-ews-api/internal/middleware"
	"github.com/noah-isme/pa-ews-api/internal/service"
	"github.com/noah-isme/pa-ews-api/pkg/response"
)

// DashboardHandler exposes the chart-feeding aggregate views.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Weekly godoc
// @Summary Week-indexed band counts
// @Tags Dashboard
// @Produce json
// @Param program query string false "Filter by program"
// @Param subject query string false "Filter by subject"
// @Param week query int false "Filter by week"
// @Param band query string false "Filter by band"
// @Success 200 {object} response.Envelope
// @Router /dashboard/weekly [get]
func (h *DashboardHandler) Weekly(c *gin.Context) {
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	counts, cacheHit, err := h.dashboard.Weekly(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, counts, nil, middleware.ExtractMeta(c))
}

// Scatter godoc
// @Summary Per-student midterm/final mean pairs
// @Tags Dashboard
// @Produce json
// @Param program query string false "Filter by program"
// @Success 200 {object} response.Envelope
// @Router /dashboard/scatter [get]
func (h *DashboardHandler) Scatter(c *gin.Context) {
	pairs, cacheHit, err := h.dashboard.Scatter(c.Request.Context(), c.Query("program"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, pairs, nil, middleware.ExtractMeta(c))
}

// Pivot godoc
// @Summary Per-subject weekly score pivot
// @Tags Dashboard
// @Produce json
// @Param subject query string true "Subject"
// @Success 200 {object} response.Envelope
// @Router /dashboard/pivot [get]
func (h *DashboardHandler) Pivot(c *gin.Context) {
	rows, cacheHit, err := h.dashboard.Pivot(c.Request.Context(), c.Query("subject"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, rows, nil, middleware.ExtractMeta(c))
}

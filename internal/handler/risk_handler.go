package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pa-ews-api/internal/middleware"
	"github.com/noah-isme/pa-ews-api/internal/models"
	"github.com/noah-isme/pa-ews-api/internal/service"
	"github.com/noah-isme/pa-ews-api/pkg/response"
)

// RiskHandler exposes the three risk detectors.
type RiskHandler struct {
	risk *service.RiskService
}

// NewRiskHandler constructs the handler.
func NewRiskHandler(risk *service.RiskService) *RiskHandler {
	return &RiskHandler{risk: risk}
}

// Consecutive godoc
// @Summary Students with sustained red/yellow weekly streaks
// @Tags Risk
// @Produce json
// @Param redRun query int false "Red run length (default from config)"
// @Param yellowRun query int false "Yellow run length (default from config)"
// @Success 200 {object} response.Envelope
// @Router /risk/consecutive [get]
func (h *RiskHandler) Consecutive(c *gin.Context) {
	redRun, err := queryInt(c, "redRun", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	yellowRun, err := queryInt(c, "yellowRun", 0)
	if err != nil {
		response.Error(c, err)
		return
	}

	flags, cacheHit, err := h.risk.Consecutive(c.Request.Context(), redRun, yellowRun)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, flags, nil, middleware.ExtractMeta(c))
}

// Windows godoc
// @Summary AND-rule sliding window triggers
// @Tags Risk
// @Produce json
// @Param minRed query int false "Minimum reds in window"
// @Param minTotal query int false "Minimum reds+yellows in window"
// @Param windowLength query int false "Window length in weeks"
// @Success 200 {object} response.Envelope
// @Router /risk/windows [get]
func (h *RiskHandler) Windows(c *gin.Context) {
	minRed, err := queryInt(c, "minRed", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	minTotal, err := queryInt(c, "minTotal", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	length, err := queryInt(c, "windowLength", 0)
	if err != nil {
		response.Error(c, err)
		return
	}

	var rule *models.WindowRule
	if minRed > 0 || minTotal > 0 || length > 0 {
		rule = &models.WindowRule{MinRedCount: minRed, MinTotalCount: minTotal, WindowLength: length}
	}

	triggers, cacheHit, err := h.risk.Windows(c.Request.Context(), rule)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, triggers, nil, middleware.ExtractMeta(c))
}

// Divergence godoc
// @Summary Weekly-versus-exam and cross-subject divergence flags
// @Tags Risk
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /risk/divergence [get]
func (h *RiskHandler) Divergence(c *gin.Context) {
	flags, cacheHit, err := h.risk.Divergence(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, flags, nil, middleware.ExtractMeta(c))
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pa-ews-api/internal/service"
	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
	"github.com/noah-isme/pa-ews-api/pkg/response"
)

// ThresholdHandler exposes the detector configuration endpoints.
type ThresholdHandler struct {
	thresholds *service.ThresholdService
}

// NewThresholdHandler constructs the handler.
func NewThresholdHandler(thresholds *service.ThresholdService) *ThresholdHandler {
	return &ThresholdHandler{thresholds: thresholds}
}

// Get godoc
// @Summary Active threshold configuration
// @Tags Thresholds
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /thresholds [get]
func (h *ThresholdHandler) Get(c *gin.Context) {
	cfg, err := h.thresholds.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{}
	if warnings := cfg.Warnings(); len(warnings) > 0 {
		meta["warnings"] = warnings
	}
	response.JSON(c, http.StatusOK, cfg, nil, meta)
}

// Update godoc
// @Summary Replace the threshold configuration
// @Tags Thresholds
// @Accept json
// @Produce json
// @Param payload body service.UpdateThresholdRequest true "Threshold payload"
// @Success 200 {object} response.Envelope
// @Router /thresholds [put]
func (h *ThresholdHandler) Update(c *gin.Context) {
	var req service.UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cfg, err := h.thresholds.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{}
	if warnings := cfg.Warnings(); len(warnings) > 0 {
		meta["warnings"] = warnings
	}
	response.JSON(c, http.StatusOK, cfg, nil, meta)
}

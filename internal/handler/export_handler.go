package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pa-ews-api/internal/service"
	"github.com/noah-isme/pa-ews-api/pkg/response"
)

// ExportHandler streams the downloadable artifacts.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ScoresCSV godoc
// @Summary Merged score table as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} file
// @Router /exports/scores.csv [get]
func (h *ExportHandler) ScoresCSV(c *gin.Context) {
	payload, err := h.exports.ScoresCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "text/csv", "scores.csv", payload)
}

// AnonymizedCSV godoc
// @Summary Anonymized merged table as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} file
// @Router /exports/anonymized.csv [get]
func (h *ExportHandler) AnonymizedCSV(c *gin.Context) {
	payload, err := h.exports.AnonymizedCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "text/csv", "anonymized.csv", payload)
}

// RiskPDF godoc
// @Summary Combined risk report as PDF
// @Tags Exports
// @Produce application/pdf
// @Success 200 {file} file
// @Router /exports/risk.pdf [get]
func (h *ExportHandler) RiskPDF(c *gin.Context) {
	payload, err := h.exports.RiskPDF(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, "application/pdf", "risk.pdf", payload)
}

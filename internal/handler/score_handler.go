package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pa-ews-api/internal/dto"
	"github.com/noah-isme/pa-ews-api/internal/models"
	"github.com/noah-isme/pa-ews-api/internal/service"
	appErrors "github.com/noah-isme/pa-ews-api/pkg/errors"
	"github.com/noah-isme/pa-ews-api/pkg/response"
)

// ScoreHandler exposes score upload and the merged analytic view.
type ScoreHandler struct {
	ingest    *service.IngestService
	dashboard *service.DashboardService
	maxUpload int64
}

// NewScoreHandler constructs the handler.
func NewScoreHandler(ingest *service.IngestService, dashboard *service.DashboardService, maxUpload int64) *ScoreHandler {
	return &ScoreHandler{ingest: ingest, dashboard: dashboard, maxUpload: maxUpload}
}

// Upload godoc
// @Summary Upload one or more score CSVs
// @Tags Scores
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Score CSV files"
// @Success 200 {object} response.Envelope
// @Router /scores/upload [post]
func (h *ScoreHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid multipart form"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "no score files uploaded"))
		return
	}

	combined := &dto.UploadSummary{}
	for _, fileHeader := range files {
		reader, err := openUploadHeader(fileHeader, h.maxUpload)
		if err != nil {
			response.Error(c, err)
			return
		}
		summary, err := h.ingest.IngestScores(c.Request.Context(), reader)
		reader.Close()
		if err != nil {
			response.Error(c, err)
			return
		}
		combined.TotalRows += summary.TotalRows
		combined.Accepted += summary.Accepted
		combined.Dropped += summary.Dropped
		combined.Errors = append(combined.Errors, summary.Errors...)
	}
	response.JSON(c, http.StatusOK, combined, nil)
}

// List godoc
// @Summary Filtered merged score view
// @Tags Scores
// @Produce json
// @Param program query string false "Filter by program"
// @Param subject query string false "Filter by subject"
// @Param week query int false "Filter by week"
// @Param band query string false "Filter by band"
// @Success 200 {object} response.Envelope
// @Router /scores [get]
func (h *ScoreHandler) List(c *gin.Context) {
	filter, err := parseScoreFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	merged, err := h.dashboard.Merged(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, merged, nil)
}

func parseScoreFilter(c *gin.Context) (models.ScoreFilter, error) {
	filter := models.ScoreFilter{Program: c.Query("program")}
	week, err := queryInt(c, "week", 0)
	if err != nil {
		return filter, err
	}
	filter.Week = week
	if raw := c.Query("subject"); raw != "" {
		subject, ok := models.ParseSubject(raw)
		if !ok {
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown subject "+raw)
		}
		filter.Subject = subject
	}
	if raw := c.Query("band"); raw != "" {
		band, ok := models.ParseBand(raw)
		if !ok {
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown band "+raw)
		}
		filter.Band = band
	}
	if filter.Week < 0 || filter.Week > models.MaxWeek {
		return filter, appErrors.Clone(appErrors.ErrValidation, "week out of range")
	}
	return filter, nil
}

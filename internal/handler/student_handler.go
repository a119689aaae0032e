package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pa-ews-api/internal/models"
	"github.com/noah-isme/pa-ews-api/internal/service"
	"github.com/noah-isme/pa-ews-api/pkg/response"
)

// StudentHandler exposes roster endpoints.
type StudentHandler struct {
	students  *service.StudentService
	ingest    *service.IngestService
	maxUpload int64
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(students *service.StudentService, ingest *service.IngestService, maxUpload int64) *StudentHandler {
	return &StudentHandler{students: students, ingest: ingest, maxUpload: maxUpload}
}

// Upload godoc
// @Summary Upload roster CSV
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Roster CSV"
// @Success 200 {object} response.Envelope
// @Router /students/upload [post]
func (h *StudentHandler) Upload(c *gin.Context) {
	reader, err := openUpload(c, "file", h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()

	summary, err := h.ingest.IngestRoster(c.Request.Context(), reader)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Match ID or name"
// @Param program query string false "Filter by program"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		response.Error(c, err)
		return
	}
	pageSize, err := queryInt(c, "pageSize", 50)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.StudentFilter{
		Search:   c.Query("search"),
		Program:  c.Query("program"),
		Page:     page,
		PageSize: pageSize,
	}
	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get one student with derived labels
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	detail, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Programs godoc
// @Summary List distinct programs
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *StudentHandler) Programs(c *gin.Context) {
	programs, err := h.students.Programs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

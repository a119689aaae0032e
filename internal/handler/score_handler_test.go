package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pa-ews-api/internal/models"
)

func TestParseScoreFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/scores?program=MED&subject=biochem&week=3&band=red", nil)

	filter, err := parseScoreFilter(c)
	require.NoError(t, err)
	assert.Equal(t, "MED", filter.Program)
	assert.Equal(t, models.SubjectBiochem, filter.Subject)
	assert.Equal(t, 3, filter.Week)
	assert.Equal(t, models.BandRed, filter.Band)
}

func TestParseScoreFilterRejectsUnknownSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/scores?subject=HISTORY", nil)

	_, err := parseScoreFilter(c)
	require.Error(t, err)
}

func TestParseScoreFilterRejectsMalformedWeek(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/scores?week=abc", nil)

	_, err := parseScoreFilter(c)
	require.Error(t, err)
}

func TestParseScoreFilterRejectsWeekOutOfRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/scores?week=19", nil)

	_, err := parseScoreFilter(c)
	require.Error(t, err)
}

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/pa-ews-api/internal/models"
	"github.com/noah-isme/pa-ews-api/internal/service"
	"github.com/noah-isme/pa-ews-api/pkg/response"
)

type thresholdStoreMock struct {
	active *models.ThresholdConfig
}

func (m *thresholdStoreMock) Active(ctx context.Context) (*models.ThresholdConfig, error) {
	if m.active == nil {
		return nil, sql.ErrNoRows
	}
	return m.active, nil
}

func (m *thresholdStoreMock) Save(ctx context.Context, cfg models.ThresholdConfig) (*models.ThresholdConfig, error) {
	cfg.Version = 2
	m.active = &cfg
	return &cfg, nil
}

func newThresholdHandler(store *thresholdStoreMock) *ThresholdHandler {
	svc := service.NewThresholdService(store, nil, validator.New(), zap.NewNop())
	return NewThresholdHandler(svc)
}

func TestThresholdHandlerGetDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newThresholdHandler(&thresholdStoreMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/thresholds", nil)

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var cfg models.ThresholdConfig
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.Equal(t, 40.0, cfg.Global.RedMax)
	assert.Equal(t, 70.0, cfg.Global.YellowMax)
}

func TestThresholdHandlerUpdate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &thresholdStoreMock{}
	handler := newThresholdHandler(store)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := `{"global":{"red_max":45,"yellow_max":75},"window":{"min_red_count":2,"min_total_count":4}}`
	c.Request, _ = http.NewRequest(http.MethodPut, "/thresholds", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, store.active)
	assert.Equal(t, 45.0, store.active.Global.RedMax)
	assert.Equal(t, 2, store.active.Version)
}

func TestThresholdHandlerUpdateRejectsBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newThresholdHandler(&thresholdStoreMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPut, "/thresholds", strings.NewReader("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Update(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// File: handlers/availability_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotwise/models"
	"slotwise/services/availability"
)

type stubAvailabilityService struct {
	resp      models.AvailabilityCheckResponse
	createErr error
}

func (s *stubAvailabilityService) CheckAvailability(_ context.Context, _ models.AvailabilityCheckRequest) (models.AvailabilityCheckResponse, error) {
	return s.resp, nil
}

func (s *stubAvailabilityService) CreateRule(_ context.Context, _ models.AvailabilityRule) error {
	return s.createErr
}

func availabilityRouter(svc *stubAvailabilityService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAvailabilityHandler(svc)
	r.POST("/api/availability/check", h.CheckAvailability)
	r.POST("/api/availability/rules", h.CreateRule)
	return r
}

func TestCheckAvailabilityEndpoint(t *testing.T) {
	svc := &stubAvailabilityService{resp: models.AvailabilityCheckResponse{
		Available: false, Reason: "EXCEPTION", Message: "Unavailable due to an exception.",
	}}
	start := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	body, _ := json.Marshal(models.AvailabilityCheckRequest{
		ResourceID: 7, StartTime: start, EndTime: start.Add(time.Hour),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/availability/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	availabilityRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.AvailabilityCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Available)
	assert.Equal(t, "EXCEPTION", resp.Reason)
}

func TestCheckAvailabilityRejectsInvertedWindow(t *testing.T) {
	start := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	body, _ := json.Marshal(models.AvailabilityCheckRequest{
		ResourceID: 7, StartTime: start, EndTime: start.Add(-time.Hour),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/availability/check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	availabilityRouter(&stubAvailabilityService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRuleConflictMapsTo409(t *testing.T) {
	svc := &stubAvailabilityService{createErr: availability.ErrRuleConflict}
	weekday := 1
	body, _ := json.Marshal(models.AvailabilityRule{
		ID: 2, PatternID: 10, RuleType: models.RuleWeekly, Weekday: &weekday,
		StartMinute: 540, EndMinute: 600, SlotDuration: 30, MaxSlots: 1,
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/availability/rules", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	availabilityRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

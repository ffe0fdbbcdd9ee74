// File: handlers/slots_test.go
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
)

type stubSlotService struct {
	slot      *models.TimeSlot
	booked    bool
	updated   bool
	history   []models.RetroactiveChangeLog
	nextSlots []models.TimeSlot

	bookedSlotID string
	bookedBy     string
}

func (s *stubSlotService) GetSlotByID(_ context.Context, _ string) (*models.TimeSlot, error) {
	return s.slot, nil
}

func (s *stubSlotService) FindNextAvailable(_ context.Context, _ string, _ int64, _ time.Time, _ *int64) ([]models.TimeSlot, error) {
	return s.nextSlots, nil
}

func (s *stubSlotService) Book(_ context.Context, slotID string, _ int64, modifiedBy, _ string) (bool, error) {
	s.bookedSlotID = slotID
	s.bookedBy = modifiedBy
	return s.booked, nil
}

func (s *stubSlotService) UpdateSlotStatus(_ context.Context, _ string, _ models.SlotStatus, _, _ string) (bool, error) {
	return s.updated, nil
}

func (s *stubSlotService) GetSlotHistory(_ context.Context, _ string) ([]models.RetroactiveChangeLog, error) {
	return s.history, nil
}

func slotRouter(svc *stubSlotService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSlotHandler(svc)
	r.GET("/api/slots/next", h.GetNextAvailable)
	r.GET("/api/slots/:id", h.GetSlot)
	r.GET("/api/slots/:id/history", h.GetSlotHistory)
	r.POST("/api/slots/:id/book", h.BookSlot)
	r.PATCH("/api/slots/:id/status", h.UpdateSlotStatus)
	return r
}

func TestGetSlotFound(t *testing.T) {
	svc := &stubSlotService{slot: &models.TimeSlot{ID: "s1", Status: models.SlotAvailable}}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/slots/s1", nil)
	slotRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got models.TimeSlot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "s1", got.ID)
}

func TestGetSlotNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/slots/missing", nil)
	slotRouter(&stubSlotService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookSlotSuccess(t *testing.T) {
	svc := &stubSlotService{booked: true}
	body, _ := json.Marshal(models.BookSlotRequest{BookingID: 99, ModifiedBy: "user-1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/slots/s1/book", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	slotRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", svc.bookedSlotID)
	assert.Equal(t, "user-1", svc.bookedBy)
}

func TestBookSlotConflict(t *testing.T) {
	svc := &stubSlotService{booked: false}
	body, _ := json.Marshal(models.BookSlotRequest{BookingID: 99, ModifiedBy: "user-1"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/slots/s1/book", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	slotRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookSlotRejectsMissingFields(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/slots/s1/book", bytes.NewReader([]byte(`{"reason":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	slotRouter(&stubSlotService{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSlotStatusRejected(t *testing.T) {
	body, _ := json.Marshal(models.UpdateSlotStatusRequest{Status: models.SlotCompleted, ModifiedBy: "admin"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/slots/s1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	slotRouter(&stubSlotService{updated: false}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetNextAvailableValidatesQuery(t *testing.T) {
	router := slotRouter(&stubSlotService{nextSlots: []models.TimeSlot{{ID: "s1"}}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/slots/next", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/slots/next?resourceType=practitioner&resourceId=7", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/slots/next?resourceType=practitioner&resourceId=7&after=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

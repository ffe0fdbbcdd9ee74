// File: handlers/slots.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"slotwise/models"
	slotService "slotwise/services/slot"
	"slotwise/utils"
)

// SlotHandler exposes slot lookup and the booking state machine.
type SlotHandler struct {
	Service slotService.SlotService
}

func NewSlotHandler(svc slotService.SlotService) *SlotHandler {
	return &SlotHandler{Service: svc}
}

// GetSlot returns a slot regardless of which partition holds it.
func (h *SlotHandler) GetSlot(c *gin.Context) {
	slotID := c.Param("id")

	slot, err := h.Service.GetSlotByID(c.Request.Context(), slotID)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "slot lookup failed", err.Error())
		return
	}
	if slot == nil {
		utils.JSONError(c, http.StatusNotFound, "slot not found", slotID)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// GetNextAvailable returns the next bookable slots for a resource.
func (h *SlotHandler) GetNextAvailable(c *gin.Context) {
	resourceType := c.Query("resourceType")
	resourceID, err := strconv.ParseInt(c.Query("resourceId"), 10, 64)
	if err != nil || resourceType == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid query", "resourceType and resourceId are required")
		return
	}

	after := time.Now().UTC()
	if raw := c.Query("after"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid query", "after must be RFC3339")
			return
		}
		after = parsed
	}

	var serviceTypeID *int64
	if raw := c.Query("serviceTypeId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid query", "serviceTypeId must be numeric")
			return
		}
		serviceTypeID = &parsed
	}

	slots, err := h.Service.FindNextAvailable(c.Request.Context(), resourceType, resourceID, after, serviceTypeID)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "next-available lookup failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// BookSlot reserves an AVAILABLE slot; a lost race or wrong state comes
// back as a conflict, not an error.
func (h *SlotHandler) BookSlot(c *gin.Context) {
	slotID := c.Param("id")
	var req models.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking payload", err.Error())
		return
	}

	booked, err := h.Service.Book(c.Request.Context(), slotID, req.BookingID, req.ModifiedBy, req.Reason)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "booking failed", err.Error())
		return
	}
	if !booked {
		utils.JSONError(c, http.StatusConflict, "slot not bookable", "slot is missing or no longer AVAILABLE")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "booked", "slotId": slotID})
}

// UpdateSlotStatus blocks, unblocks, or completes a slot.
func (h *SlotHandler) UpdateSlotStatus(c *gin.Context) {
	slotID := c.Param("id")
	var req models.UpdateSlotStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid status payload", err.Error())
		return
	}

	updated, err := h.Service.UpdateSlotStatus(c.Request.Context(), slotID, req.Status, req.Reason, req.ModifiedBy)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "status update failed", err.Error())
		return
	}
	if !updated {
		utils.JSONError(c, http.StatusConflict, "transition rejected", "slot is missing or the transition is not permitted")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(req.Status), "slotId": slotID})
}

// GetSlotHistory returns the audit trail for a slot.
func (h *SlotHandler) GetSlotHistory(c *gin.Context) {
	slotID := c.Param("id")

	entries, err := h.Service.GetSlotHistory(c.Request.Context(), slotID)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "history lookup failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"changes": entries})
}

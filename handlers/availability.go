// File: handlers/availability.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotwise/models"
	"slotwise/services/availability"
	"slotwise/utils"
)

// AvailabilityHandler exposes the availability resolver and rule
// management.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// CheckAvailability resolves whether a resource is bookable in the
// requested window.
func (h *AvailabilityHandler) CheckAvailability(c *gin.Context) {
	var req models.AvailabilityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid availability request", err.Error())
		return
	}
	if !req.EndTime.After(req.StartTime) {
		utils.JSONError(c, http.StatusBadRequest, "invalid availability request", "endTime must be after startTime")
		return
	}

	resp, err := h.Service.CheckAvailability(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "availability check failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRule adds an availability rule, rejecting overlaps atomically.
func (h *AvailabilityHandler) CreateRule(c *gin.Context) {
	var rule models.AvailabilityRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid rule payload", err.Error())
		return
	}

	if err := h.Service.CreateRule(c.Request.Context(), rule); err != nil {
		switch {
		case errors.Is(err, availability.ErrRuleConflict):
			utils.JSONError(c, http.StatusConflict, "rule conflict", err.Error())
		default:
			utils.JSONError(c, http.StatusUnprocessableEntity, "rule rejected", err.Error())
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "created"})
}

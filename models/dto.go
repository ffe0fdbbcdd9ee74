package models

import "time"

// AvailabilityCheckRequest asks whether a resource is bookable in a window.
type AvailabilityCheckRequest struct {
	ResourceID int64     `json:"resourceId" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
}

// AvailabilityCheckResponse carries the verdict and, when unavailable,
// the reason that short-circuited the evaluation.
type AvailabilityCheckResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message"`
}

// GenerateSlotsRequest triggers slot generation for a resource over a
// closed date range (dates as "2006-01-02").
type GenerateSlotsRequest struct {
	ResourceType string `json:"resourceType" binding:"required"`
	ResourceID   int64  `json:"resourceId" binding:"required"`
	StartDate    string `json:"startDate" binding:"required"`
	EndDate      string `json:"endDate" binding:"required"`
	TenantID     int64  `json:"tenantId" binding:"required"`
}

// BookSlotRequest reserves an AVAILABLE slot for a booking.
type BookSlotRequest struct {
	BookingID  int64  `json:"bookingId" binding:"required"`
	ModifiedBy string `json:"modifiedBy" binding:"required"`
	Reason     string `json:"reason"`
}

// UpdateSlotStatusRequest is the general-purpose status transition
// (block, unblock, complete).
type UpdateSlotStatusRequest struct {
	Status     SlotStatus `json:"status" binding:"required"`
	Reason     string     `json:"reason"`
	ModifiedBy string     `json:"modifiedBy" binding:"required"`
}

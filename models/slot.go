package models

import "time"

// SlotStatus is the lifecycle state of a bookable time slot.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotBooked    SlotStatus = "BOOKED"
	SlotBlocked   SlotStatus = "BLOCKED"
	SlotCompleted SlotStatus = "COMPLETED"
)

// TimeSlot represents a concrete bookable window for one resource.
// Slots live in the "time_slots" collection until archived into a
// per-year collection; an id is held by exactly one partition.
type TimeSlot struct {
	ID             string     `bson:"id" json:"id"`
	ResourceType   string     `bson:"resourceType" json:"resourceType"`
	ResourceID     int64      `bson:"resourceId" json:"resourceId"`
	StartTime      time.Time  `bson:"startTime" json:"startTime"`
	EndTime        time.Time  `bson:"endTime" json:"endTime"`
	Status         SlotStatus `bson:"status" json:"status"`
	TenantID       int64      `bson:"tenantId" json:"tenantId"`
	ServiceTypeID  *int64     `bson:"serviceTypeId,omitempty" json:"serviceTypeId,omitempty"`
	BookingID      *int64     `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	BlockingReason string     `bson:"blockingReason,omitempty" json:"blockingReason,omitempty"`
	LastModifiedBy string     `bson:"lastModifiedBy,omitempty" json:"lastModifiedBy,omitempty"`
	UpdatedAt      time.Time  `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`

	// Batch slots carry their row/position inside the batch session.
	BatchRow      *int `bson:"batchRow,omitempty" json:"batchRow,omitempty"`
	BatchPosition *int `bson:"batchPosition,omitempty" json:"batchPosition,omitempty"`
}

// CanTransitionTo reports whether the status machine permits moving
// from the current status to next. COMPLETED is terminal.
func (s SlotStatus) CanTransitionTo(next SlotStatus) bool {
	switch s {
	case SlotAvailable:
		return next == SlotBooked || next == SlotBlocked
	case SlotBooked:
		return next == SlotCompleted
	case SlotBlocked:
		return next == SlotAvailable || next == SlotCompleted
	case SlotCompleted:
		return false
	}
	return false
}

package models

import "time"

// ExceptionType classifies an availability exception.
type ExceptionType string

const (
	ExceptionBlock ExceptionType = "BLOCK"
)

// AvailabilityException marks a window during which a resource is not
// bookable regardless of its rules (holidays, maintenance, leave).
type AvailabilityException struct {
	ID            int64         `bson:"id" json:"id"`
	ResourceType  string        `bson:"resourceType" json:"resourceType"`
	ResourceID    int64         `bson:"resourceId" json:"resourceId"`
	StartTime     time.Time     `bson:"startTime" json:"startTime"`
	EndTime       time.Time     `bson:"endTime" json:"endTime"`
	ExceptionType ExceptionType `bson:"exceptionType" json:"exceptionType"`
	Reason        string        `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Overlaps is the half-open interval overlap test against a slot window.
func (e AvailabilityException) Overlaps(start, end time.Time) bool {
	return e.StartTime.Before(end) && e.EndTime.After(start)
}

// Contains reports whether the exception fully contains the requested
// window (strict on both ends).
func (e AvailabilityException) Contains(start, end time.Time) bool {
	return e.StartTime.Before(start) && e.EndTime.After(end)
}

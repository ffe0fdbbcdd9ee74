package models

import "time"

// AvailabilityPattern is a named grouping of rules. Its recurrence
// expression is evaluated by an external predicate, not here.
type AvailabilityPattern struct {
	ID       int64  `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	CronExpr string `bson:"cronExpr,omitempty" json:"cronExpr,omitempty"`
	Active   bool   `bson:"active" json:"active"`
}

// PatternAssignment associates a pattern to a resource for a date range.
// Slot generation materializes the pattern's rules over the overlap of
// the assignment range and the requested range.
type PatternAssignment struct {
	ID           int64      `bson:"id" json:"id"`
	PatternID    int64      `bson:"patternId" json:"patternId"`
	ResourceType string     `bson:"resourceType" json:"resourceType"`
	ResourceID   int64      `bson:"resourceId" json:"resourceId"`
	StartDate    time.Time  `bson:"startDate" json:"startDate"`
	EndDate      *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Active       bool       `bson:"active" json:"active"`
}

// ResourceAvailability is a manual availability override for a specific
// window; Available=false marks the window unbookable.
type ResourceAvailability struct {
	ID         int64     `bson:"id" json:"id"`
	ResourceID int64     `bson:"resourceId" json:"resourceId"`
	StartTime  time.Time `bson:"startTime" json:"startTime"`
	EndTime    time.Time `bson:"endTime" json:"endTime"`
	Available  bool      `bson:"available" json:"available"`
}

// Contains reports whether the override window fully contains the
// requested window (strict on both ends).
func (ra ResourceAvailability) Contains(start, end time.Time) bool {
	return ra.StartTime.Before(start) && ra.EndTime.After(end)
}

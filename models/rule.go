package models

import (
	"fmt"
	"time"
)

// RuleType discriminates how an AvailabilityRule recurs.
type RuleType string

const (
	RuleWeekly  RuleType = "WEEKLY"
	RuleMonthly RuleType = "MONTHLY"
	RuleCustom  RuleType = "CUSTOM"
)

// AvailabilityRule is a declarative recurrence statement belonging to a
// pattern. Times of day are minutes from midnight (e.g., 420 for 7:00 AM).
// Exactly one of Weekday, DayOfMonth, StartDate is populated, determined
// by RuleType.
type AvailabilityRule struct {
	ID           int64      `bson:"id" json:"id"`
	PatternID    int64      `bson:"patternId" json:"patternId"`
	RuleType     RuleType   `bson:"ruleType" json:"ruleType"`
	Weekday      *int       `bson:"weekday,omitempty" json:"weekday,omitempty"` // 0 = Sunday
	DayOfMonth   *int       `bson:"dayOfMonth,omitempty" json:"dayOfMonth,omitempty"`
	StartDate    *time.Time `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate      *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"` // nil = open-ended
	StartMinute  int        `bson:"startMinute" json:"startMinute"`
	EndMinute    int        `bson:"endMinute" json:"endMinute"`
	SlotDuration int        `bson:"slotDuration" json:"slotDuration"` // minutes
	MaxSlots     int        `bson:"maxSlots" json:"maxSlots"`         // parallel capacity
}

// AppliesOn reports whether the rule produces slots on the given calendar date.
func (r AvailabilityRule) AppliesOn(date time.Time) bool {
	switch r.RuleType {
	case RuleWeekly:
		return r.Weekday != nil && *r.Weekday == int(date.Weekday())
	case RuleMonthly:
		return r.DayOfMonth != nil && *r.DayOfMonth == date.Day()
	case RuleCustom:
		if r.StartDate == nil || date.Before(*r.StartDate) {
			return false
		}
		return r.EndDate == nil || !date.After(*r.EndDate)
	}
	return false
}

// Validate rejects malformed rules before expansion; nothing is ever
// silently corrected.
func (r AvailabilityRule) Validate() error {
	if r.StartMinute >= r.EndMinute {
		return fmt.Errorf("rule %d: start minute %d must precede end minute %d", r.ID, r.StartMinute, r.EndMinute)
	}
	if r.SlotDuration <= 0 {
		return fmt.Errorf("rule %d: slot duration must be positive, got %d", r.ID, r.SlotDuration)
	}
	if r.MaxSlots < 1 {
		return fmt.Errorf("rule %d: max slots must be at least 1, got %d", r.ID, r.MaxSlots)
	}
	switch r.RuleType {
	case RuleWeekly:
		if r.Weekday == nil || *r.Weekday < 0 || *r.Weekday > 6 {
			return fmt.Errorf("rule %d: weekly rule requires weekday in [0,6]", r.ID)
		}
	case RuleMonthly:
		if r.DayOfMonth == nil || *r.DayOfMonth < 1 || *r.DayOfMonth > 31 {
			return fmt.Errorf("rule %d: monthly rule requires day of month in [1,31]", r.ID)
		}
	case RuleCustom:
		if r.StartDate == nil {
			return fmt.Errorf("rule %d: custom rule requires a start date", r.ID)
		}
		if r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
			return fmt.Errorf("rule %d: custom rule end date precedes start date", r.ID)
		}
	default:
		return fmt.Errorf("rule %d: unknown rule type %q", r.ID, r.RuleType)
	}
	return nil
}

// Overlaps reports whether two rules for the same pattern and day would
// produce colliding time windows.
func (r AvailabilityRule) Overlaps(other AvailabilityRule) bool {
	return r.StartMinute < other.EndMinute && r.EndMinute > other.StartMinute
}

// BatchSlotConfig spreads TotalSlots of capacity across sequential rows
// of up to ParallelCapacity parallel slots each (e.g., group sessions).
type BatchSlotConfig struct {
	ID               int64 `bson:"id" json:"id"`
	PatternID        int64 `bson:"patternId" json:"patternId"`
	Weekday          int   `bson:"weekday" json:"weekday"` // 0 = Sunday
	StartMinute      int   `bson:"startMinute" json:"startMinute"`
	EndMinute        int   `bson:"endMinute" json:"endMinute"`
	TotalSlots       int   `bson:"totalSlots" json:"totalSlots"`
	ParallelCapacity int   `bson:"parallelCapacity" json:"parallelCapacity"`
	AvgDuration      int   `bson:"avgDuration" json:"avgDuration"` // minutes
}

func (c BatchSlotConfig) Validate() error {
	if c.StartMinute >= c.EndMinute {
		return fmt.Errorf("batch config %d: start minute %d must precede end minute %d", c.ID, c.StartMinute, c.EndMinute)
	}
	if c.TotalSlots < 1 {
		return fmt.Errorf("batch config %d: total slots must be at least 1, got %d", c.ID, c.TotalSlots)
	}
	if c.ParallelCapacity < 1 {
		return fmt.Errorf("batch config %d: parallel capacity must be at least 1, got %d", c.ID, c.ParallelCapacity)
	}
	if c.AvgDuration <= 0 {
		return fmt.Errorf("batch config %d: average duration must be positive, got %d", c.ID, c.AvgDuration)
	}
	if c.Weekday < 0 || c.Weekday > 6 {
		return fmt.Errorf("batch config %d: weekday must be in [0,6], got %d", c.ID, c.Weekday)
	}
	return nil
}

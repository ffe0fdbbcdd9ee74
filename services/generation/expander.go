// File: services/generation/expander.go
package generation

import (
	"fmt"
	"time"

	"slotwise/models"
)

// atMinute anchors a minutes-from-midnight offset onto a calendar date.
func atMinute(date time.Time, minute int) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(minute) * time.Minute)
}

// ExpandRules materializes a pattern's rules into candidate slots over
// the closed date range [startDate, endDate]. Pure: identical inputs
// always yield an identical, order-stable sequence (dates ascending,
// rules in input order, time ascending, parallel index ascending).
// Partial trailing slots that would not fit before the rule's end are
// dropped, never truncated.
func ExpandRules(rules []models.AvailabilityRule, resourceType string, resourceID int64, startDate, endDate time.Time, tenantID int64) ([]models.TimeSlot, error) {
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("invalid availability rule: %w", err)
		}
	}

	var slots []models.TimeSlot
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		for _, rule := range rules {
			if !rule.AppliesOn(date) {
				continue
			}
			for cur := rule.StartMinute; cur+rule.SlotDuration <= rule.EndMinute; cur += rule.SlotDuration {
				slotStart := atMinute(date, cur)
				slotEnd := atMinute(date, cur+rule.SlotDuration)
				for i := 0; i < rule.MaxSlots; i++ {
					slots = append(slots, models.TimeSlot{
						ResourceType: resourceType,
						ResourceID:   resourceID,
						StartTime:    slotStart,
						EndTime:      slotEnd,
						Status:       models.SlotAvailable,
						TenantID:     tenantID,
					})
				}
			}
		}
	}
	return slots, nil
}

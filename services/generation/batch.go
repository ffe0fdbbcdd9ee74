// File: services/generation/batch.go
package generation

import (
	"fmt"
	"time"

	"slotwise/models"
)

// ExpandBatch materializes batch session configs into candidate slots
// over the closed date range. A config's TotalSlots capacity is spread
// across ceil(TotalSlots/ParallelCapacity) sequential rows, with rows
// spaced at least AvgDuration apart so sessions never stack tighter
// than the average service time. Pure and order-stable like ExpandRules.
func ExpandBatch(configs []models.BatchSlotConfig, resourceType string, resourceID int64, startDate, endDate time.Time, tenantID int64) ([]models.TimeSlot, error) {
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid batch config: %w", err)
		}
	}

	var slots []models.TimeSlot
	for _, cfg := range configs {
		rows := (cfg.TotalSlots + cfg.ParallelCapacity - 1) / cfg.ParallelCapacity

		totalMinutes := cfg.EndMinute - cfg.StartMinute
		slotInterval := totalMinutes / rows
		if slotInterval < cfg.AvgDuration {
			slotInterval = cfg.AvgDuration
		}

		for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
			if int(date.Weekday()) != cfg.Weekday {
				continue
			}

			for row := 0; row < rows; row++ {
				rowStart := cfg.StartMinute + row*slotInterval
				if rowStart >= cfg.EndMinute {
					break
				}
				rowEnd := rowStart + cfg.AvgDuration
				if rowEnd > cfg.EndMinute {
					rowEnd = cfg.EndMinute
				}

				slotStart := atMinute(date, rowStart)
				slotEnd := atMinute(date, rowEnd)

				slotsInRow := cfg.TotalSlots - row*cfg.ParallelCapacity
				if slotsInRow > cfg.ParallelCapacity {
					slotsInRow = cfg.ParallelCapacity
				}

				for pos := 0; pos < slotsInRow; pos++ {
					batchRow := row + 1
					batchPos := pos + 1
					slots = append(slots, models.TimeSlot{
						ResourceType:  resourceType,
						ResourceID:    resourceID,
						StartTime:     slotStart,
						EndTime:       slotEnd,
						Status:        models.SlotAvailable,
						TenantID:      tenantID,
						BatchRow:      &batchRow,
						BatchPosition: &batchPos,
					})
				}
			}
		}
	}
	return slots, nil
}

// File: services/reconciler/sweep.go
package reconciler

import (
	"context"
	"fmt"
	"time"

	slotRepo "slotwise/database/repository/slot"
	summaryRepo "slotwise/database/repository/summary"
	"slotwise/utils"

	"go.uber.org/zap"
)

// Reconciler periodically rebuilds flagged occupancy summaries from the
// authoritative slot partitions. Summaries are recomputed wholesale,
// never patched incrementally, so a sweep is idempotent: running it
// twice on unchanged data yields the same aggregates and clears the
// flags both times.
type Reconciler struct {
	Slots     slotRepo.SlotRepository
	Summaries summaryRepo.SummaryRepository
	BatchSize int
}

// Sweep runs the monthly pass then the daily pass. A failure on one
// summary is logged and skipped; the row stays flagged and is retried
// on the next scheduled tick.
func (r *Reconciler) Sweep(ctx context.Context) {
	logger := utils.GetLogger()
	if err := r.sweepMonthly(ctx); err != nil {
		logger.Error("monthly summary sweep failed", zap.Error(err))
	}
	if err := r.sweepDaily(ctx); err != nil {
		logger.Error("daily summary sweep failed", zap.Error(err))
	}
}

func (r *Reconciler) sweepMonthly(ctx context.Context) error {
	flagged, err := r.Summaries.ListFlaggedMonthly(ctx, r.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list flagged monthly summaries: %w", err)
	}

	logger := utils.GetLogger()
	for _, summary := range flagged {
		total, booked, err := r.Slots.CountByStatusMonthly(ctx,
			summary.ResourceType, summary.ResourceID, summary.TenantID, summary.Year, summary.Month)
		if err != nil {
			logger.Error("monthly recount failed, leaving flag set",
				zap.Int64("resourceId", summary.ResourceID),
				zap.Int("year", summary.Year), zap.Int("month", summary.Month),
				zap.Error(err))
			continue
		}

		summary.TotalSlots = total
		summary.BookedSlots = booked
		summary.OccupancyRate = 0
		if total > 0 {
			summary.OccupancyRate = float64(booked) / float64(total)
		}
		if err := r.Summaries.SaveMonthly(ctx, summary); err != nil {
			logger.Error("failed to save monthly summary, leaving flag set",
				zap.Int64("resourceId", summary.ResourceID), zap.Error(err))
		}
	}
	return nil
}

func (r *Reconciler) sweepDaily(ctx context.Context) error {
	days, err := r.Summaries.ListFlaggedDays(ctx, r.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list flagged days: %w", err)
	}

	logger := utils.GetLogger()
	for _, key := range days {
		date, err := time.Parse("2006-01-02", key.Date)
		if err != nil {
			logger.Error("flagged day has malformed date, skipping",
				zap.String("date", key.Date), zap.Error(err))
			continue
		}

		buckets, err := r.Slots.CountByStatusHourly(ctx, key.ResourceType, key.ResourceID, key.TenantID, date)
		if err != nil {
			logger.Error("hourly recount failed, leaving flag set",
				zap.Int64("resourceId", key.ResourceID),
				zap.String("date", key.Date), zap.Error(err))
			continue
		}
		if err := r.Summaries.ReplaceHourly(ctx, key, buckets); err != nil {
			logger.Error("failed to replace hourly buckets, leaving flag set",
				zap.Int64("resourceId", key.ResourceID),
				zap.String("date", key.Date), zap.Error(err))
		}
	}
	return nil
}

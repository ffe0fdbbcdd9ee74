// File: services/slot/service.go
package slot

import (
	"context"
	"fmt"
	"time"

	slotRepo "slotwise/database/repository/slot"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
)

// SlotService is the online surface over the partitioned slot store:
// cached reads plus the booking state machine.
type SlotService interface {
	GetSlotByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	FindNextAvailable(ctx context.Context, resourceType string, resourceID int64, after time.Time, serviceTypeID *int64) ([]models.TimeSlot, error)
	Book(ctx context.Context, slotID string, bookingID int64, modifiedBy, reason string) (bool, error)
	UpdateSlotStatus(ctx context.Context, slotID string, next models.SlotStatus, reason, modifiedBy string) (bool, error)
	GetSlotHistory(ctx context.Context, slotID string) ([]models.RetroactiveChangeLog, error)
}

// DefaultSlotService is the production implementation.
type DefaultSlotService struct {
	Repo  slotRepo.SlotRepository
	Cache SlotCache
}

// lookup resolves a slot through the cache, falling back to the
// partition-probing store and re-priming the cache on a hit.
func (s *DefaultSlotService) lookup(ctx context.Context, slotID string) (*Snapshot, error) {
	if snap, ok := s.Cache.GetSlot(ctx, slotID); ok {
		return snap, nil
	}

	found, partition, err := s.Repo.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, nil
	}

	snap := Snapshot{
		Slot:      *found,
		Partition: partition,
		Archived:  slotRepo.IsArchive(partition),
	}
	s.Cache.SetSlot(ctx, snap)
	return &snap, nil
}

// GetSlotByID returns the slot wherever it lives, or nil when no
// partition holds it.
func (s *DefaultSlotService) GetSlotByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	snap, err := s.lookup(ctx, slotID)
	if err != nil || snap == nil {
		return nil, err
	}
	slot := snap.Slot
	return &slot, nil
}

// FindNextAvailable serves the short-TTL list cache; callers tolerate
// brief staleness here, the conditional booking update is what protects
// against stale winners.
func (s *DefaultSlotService) FindNextAvailable(ctx context.Context, resourceType string, resourceID int64, after time.Time, serviceTypeID *int64) ([]models.TimeSlot, error) {
	key := NextSlotsKey(resourceType, resourceID, after, serviceTypeID)
	if slots, ok := s.Cache.GetNextSlots(ctx, key); ok {
		return slots, nil
	}

	slots, err := s.Repo.FindNextAvailable(ctx, resourceType, resourceID, after, serviceTypeID)
	if err != nil {
		return nil, err
	}
	s.Cache.SetNextSlots(ctx, key, slots)
	return slots, nil
}

// Book reserves an AVAILABLE slot for a booking. Returns false with no
// mutation when the slot is missing or not AVAILABLE; under concurrent
// attempts on the same slot exactly one caller gets true. The status
// write, audit entry, and summary flags commit as one unit, then the
// cache entry is dropped.
func (s *DefaultSlotService) Book(ctx context.Context, slotID string, bookingID int64, modifiedBy, reason string) (bool, error) {
	snap, err := s.lookup(ctx, slotID)
	if err != nil {
		return false, err
	}
	if snap == nil {
		return false, nil
	}
	if snap.Slot.Status != models.SlotAvailable {
		return false, nil
	}

	return s.transition(ctx, snap, models.SlotAvailable, models.SlotBooked, &bookingID, reason, modifiedBy)
}

// UpdateSlotStatus is the general-purpose transition used for blocking,
// unblocking, and completing. The transition table still applies;
// disallowed moves return false with no mutation and no audit write.
func (s *DefaultSlotService) UpdateSlotStatus(ctx context.Context, slotID string, next models.SlotStatus, reason, modifiedBy string) (bool, error) {
	snap, err := s.lookup(ctx, slotID)
	if err != nil {
		return false, err
	}
	if snap == nil {
		return false, nil
	}
	if !snap.Slot.Status.CanTransitionTo(next) {
		utils.GetLogger().Warn("rejected slot status transition",
			zap.String("slotId", slotID),
			zap.String("from", string(snap.Slot.Status)),
			zap.String("to", string(next)))
		return false, nil
	}

	return s.transition(ctx, snap, snap.Slot.Status, next, nil, reason, modifiedBy)
}

func (s *DefaultSlotService) transition(ctx context.Context, snap *Snapshot, expected, next models.SlotStatus, bookingID *int64, reason, modifiedBy string) (bool, error) {
	t := slotRepo.StatusTransition{
		Partition:  snap.Partition,
		SlotID:     snap.Slot.ID,
		Expected:   expected,
		Next:       next,
		BookingID:  bookingID,
		Reason:     reason,
		ModifiedBy: modifiedBy,
		Audit: models.RetroactiveChangeLog{
			SlotID:        snap.Slot.ID,
			SlotPartition: snap.Partition,
			ModifiedBy:    modifiedBy,
			FromStatus:    expected,
			ToStatus:      next,
			Reason:        reason,
			ResourceType:  snap.Slot.ResourceType,
			ResourceID:    snap.Slot.ResourceID,
			TenantID:      snap.Slot.TenantID,
			SlotDate:      snap.Slot.StartTime.Format("2006-01-02"),
		},
	}

	updated, err := s.Repo.TransitionStatus(ctx, t)
	if err != nil {
		return false, fmt.Errorf("slot %s transition to %s failed: %w", snap.Slot.ID, next, err)
	}
	if !updated {
		// Another caller won the race; drop the stale cache entry so the
		// next read sees the winner's write.
		s.Cache.InvalidateSlot(ctx, snap.Slot.ID)
		return false, nil
	}

	s.Cache.InvalidateSlot(ctx, snap.Slot.ID)
	return true, nil
}

// GetSlotHistory returns the audit trail of status transitions.
func (s *DefaultSlotService) GetSlotHistory(ctx context.Context, slotID string) ([]models.RetroactiveChangeLog, error) {
	return s.Repo.ListChangesForSlot(ctx, slotID)
}

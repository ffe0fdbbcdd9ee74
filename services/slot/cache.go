// File: services/slot/cache.go
package slot

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"slotwise/models"
	"slotwise/utils"
)

const (
	liveSlotTTL  = time.Hour
	archiveTTL   = 24 * time.Hour
	nextSlotsTTL = 5 * time.Minute
)

// Snapshot is the cached view of a slot: the record plus the partition
// it was found in, so the owning collection never needs re-probing.
type Snapshot struct {
	Slot      models.TimeSlot `json:"slot"`
	Partition string          `json:"partition"`
	Archived  bool            `json:"archived"`
}

// SlotCache fronts the slot store for single-slot and next-available
// reads. Every method is best-effort: a cache failure is logged and
// treated as a miss, never surfaced to the caller. Mutations must
// invalidate the single-slot key; next-slot lists age out on their
// short TTL instead.
type SlotCache interface {
	GetSlot(ctx context.Context, slotID string) (*Snapshot, bool)
	SetSlot(ctx context.Context, snap Snapshot)
	InvalidateSlot(ctx context.Context, slotID string)
	GetNextSlots(ctx context.Context, key string) ([]models.TimeSlot, bool)
	SetNextSlots(ctx context.Context, key string, slots []models.TimeSlot)
}

func slotKey(slotID string) string { return "slot:" + slotID }

// NextSlotsKey builds the list cache key for a next-available query.
func NextSlotsKey(resourceType string, resourceID int64, after time.Time, serviceTypeID *int64) string {
	service := ""
	if serviceTypeID != nil {
		service = fmt.Sprintf("%d", *serviceTypeID)
	}
	return fmt.Sprintf("nextSlots:%s:%d:%s:%s", resourceType, resourceID, after.Format("2006-01-02"), service)
}

type redisSlotCache struct {
	client *redis.Client
}

// NewRedisSlotCache wraps the shared Redis client as a SlotCache.
func NewRedisSlotCache(client *redis.Client) SlotCache {
	return &redisSlotCache{client: client}
}

func (c *redisSlotCache) GetSlot(ctx context.Context, slotID string) (*Snapshot, bool) {
	data, err := c.client.Get(ctx, slotKey(slotID)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		utils.GetLogger().Warn("slot cache read failed, falling back to store",
			zap.String("slotId", slotID), zap.Error(err))
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		utils.GetLogger().Warn("slot cache entry corrupt, dropping",
			zap.String("slotId", slotID), zap.Error(err))
		c.InvalidateSlot(ctx, slotID)
		return nil, false
	}
	return &snap, true
}

func (c *redisSlotCache) SetSlot(ctx context.Context, snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		utils.GetLogger().Warn("failed to marshal slot snapshot", zap.Error(err))
		return
	}
	// Archived slots barely change; cache them for a day instead of an hour.
	ttl := liveSlotTTL
	if snap.Archived {
		ttl = archiveTTL
	}
	if err := c.client.Set(ctx, slotKey(snap.Slot.ID), data, ttl).Err(); err != nil {
		utils.GetLogger().Warn("slot cache write failed", zap.String("slotId", snap.Slot.ID), zap.Error(err))
	}
}

func (c *redisSlotCache) InvalidateSlot(ctx context.Context, slotID string) {
	if err := c.client.Del(ctx, slotKey(slotID)).Err(); err != nil {
		utils.GetLogger().Warn("slot cache invalidation failed", zap.String("slotId", slotID), zap.Error(err))
	}
}

func (c *redisSlotCache) GetNextSlots(ctx context.Context, key string) ([]models.TimeSlot, bool) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		utils.GetLogger().Warn("next-slots cache read failed, falling back to store",
			zap.String("key", key), zap.Error(err))
		return nil, false
	}
	var slots []models.TimeSlot
	if err := json.Unmarshal([]byte(data), &slots); err != nil {
		utils.GetLogger().Warn("next-slots cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return slots, true
}

func (c *redisSlotCache) SetNextSlots(ctx context.Context, key string, slots []models.TimeSlot) {
	data, err := json.Marshal(slots)
	if err != nil {
		utils.GetLogger().Warn("failed to marshal next-slots list", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, nextSlotsTTL).Err(); err != nil {
		utils.GetLogger().Warn("next-slots cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// NoopSlotCache disables caching; the service reads straight through to
// the store. Used in tests and when Redis is unavailable at startup.
type NoopSlotCache struct{}

func (NoopSlotCache) GetSlot(context.Context, string) (*Snapshot, bool)        { return nil, false }
func (NoopSlotCache) SetSlot(context.Context, Snapshot)                        {}
func (NoopSlotCache) InvalidateSlot(context.Context, string)                   {}
func (NoopSlotCache) GetNextSlots(context.Context, string) ([]models.TimeSlot, bool) {
	return nil, false
}
func (NoopSlotCache) SetNextSlots(context.Context, string, []models.TimeSlot) {}

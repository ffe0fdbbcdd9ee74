// File: services/slot/service_test.go
package slot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slotRepo "slotwise/database/repository/slot"
	"slotwise/models"
)

// fakeSlotRepo keeps slots in memory keyed by id, each tagged with the
// partition it lives in. TransitionStatus takes the same
// compare-and-swap stance as the real store: the write applies only
// while the slot still holds the expected status.
type fakeSlotRepo struct {
	mu         sync.Mutex
	slots      map[string]models.TimeSlot
	partitions map[string]string
	audits     []models.RetroactiveChangeLog
	flagged    int
	findCalls  int
	nextCalls  int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{
		slots:      map[string]models.TimeSlot{},
		partitions: map[string]string{},
	}
}

func (f *fakeSlotRepo) put(slot models.TimeSlot, partition string) {
	f.slots[slot.ID] = slot
	f.partitions[slot.ID] = partition
}

func (f *fakeSlotRepo) CreateMany(_ context.Context, slots []models.TimeSlot) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		f.put(s, slotRepo.LivePartition)
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (f *fakeSlotRepo) FindByID(_ context.Context, slotID string) (*models.TimeSlot, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	slot, ok := f.slots[slotID]
	if !ok {
		return nil, "", nil
	}
	return &slot, f.partitions[slotID], nil
}

func (f *fakeSlotRepo) FindNextAvailable(_ context.Context, _ string, _ int64, after time.Time, _ *int64) ([]models.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCalls++
	var out []models.TimeSlot
	for _, s := range f.slots {
		if s.Status == models.SlotAvailable && s.StartTime.After(after) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) TransitionStatus(_ context.Context, t slotRepo.StatusTransition) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[t.SlotID]
	if !ok || slot.Status != t.Expected {
		return false, nil
	}
	slot.Status = t.Next
	slot.LastModifiedBy = t.ModifiedBy
	if t.BookingID != nil {
		slot.BookingID = t.BookingID
	}
	if t.Next == models.SlotBlocked {
		slot.BlockingReason = t.Reason
	}
	f.slots[t.SlotID] = slot
	f.audits = append(f.audits, t.Audit)
	f.flagged++
	return true, nil
}

func (f *fakeSlotRepo) DeleteUnbooked(_ context.Context, _ string, _ int64, _, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeSlotRepo) BlockAvailableInRange(_ context.Context, _ string, _ int64, _, _ time.Time, _ string) (int64, error) {
	return 0, nil
}

func (f *fakeSlotRepo) CountByStatusHourly(_ context.Context, _ string, _, _ int64, _ time.Time) ([]models.OccupancySummary, error) {
	return nil, nil
}

func (f *fakeSlotRepo) CountByStatusMonthly(_ context.Context, _ string, _, _ int64, _, _ int) (int, int, error) {
	return 0, 0, nil
}

func (f *fakeSlotRepo) ListChangesForSlot(_ context.Context, slotID string) ([]models.RetroactiveChangeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.RetroactiveChangeLog
	for _, a := range f.audits {
		if a.SlotID == slotID {
			out = append(out, a)
		}
	}
	return out, nil
}

// memorySlotCache is an in-process SlotCache that counts operations.
type memorySlotCache struct {
	mu           sync.Mutex
	slots        map[string]Snapshot
	lists        map[string][]models.TimeSlot
	invalidation int
}

func newMemorySlotCache() *memorySlotCache {
	return &memorySlotCache{slots: map[string]Snapshot{}, lists: map[string][]models.TimeSlot{}}
}

func (c *memorySlotCache) GetSlot(_ context.Context, slotID string) (*Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.slots[slotID]
	if !ok {
		return nil, false
	}
	return &snap, true
}

func (c *memorySlotCache) SetSlot(_ context.Context, snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[snap.Slot.ID] = snap
}

func (c *memorySlotCache) InvalidateSlot(_ context.Context, slotID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, slotID)
	c.invalidation++
}

func (c *memorySlotCache) GetNextSlots(_ context.Context, key string) ([]models.TimeSlot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slots, ok := c.lists[key]
	return slots, ok
}

func (c *memorySlotCache) SetNextSlots(_ context.Context, key string, slots []models.TimeSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[key] = slots
}

func availableSlot(id string) models.TimeSlot {
	start := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	return models.TimeSlot{
		ID:           id,
		ResourceType: "practitioner",
		ResourceID:   7,
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		Status:       models.SlotAvailable,
		TenantID:     1,
	}
}

func TestBookAvailableSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	repo.put(availableSlot("s1"), slotRepo.LivePartition)
	cache := newMemorySlotCache()
	svc := &DefaultSlotService{Repo: repo, Cache: cache}

	booked, err := svc.Book(context.Background(), "s1", 99, "user-1", "client booking")
	require.NoError(t, err)
	assert.True(t, booked)

	assert.Equal(t, models.SlotBooked, repo.slots["s1"].Status)
	require.NotNil(t, repo.slots["s1"].BookingID)
	assert.Equal(t, int64(99), *repo.slots["s1"].BookingID)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.SlotAvailable, repo.audits[0].FromStatus)
	assert.Equal(t, models.SlotBooked, repo.audits[0].ToStatus)
	assert.Equal(t, "2025-03-03", repo.audits[0].SlotDate)
	assert.Equal(t, 1, repo.flagged)

	// The single-slot cache entry was dropped after the commit.
	_, hit := cache.GetSlot(context.Background(), "s1")
	assert.False(t, hit)
}

func TestBookMissingOrUnavailableSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	blocked := availableSlot("s2")
	blocked.Status = models.SlotBlocked
	repo.put(blocked, slotRepo.LivePartition)
	svc := &DefaultSlotService{Repo: repo, Cache: NoopSlotCache{}}

	booked, err := svc.Book(context.Background(), "nope", 99, "user-1", "")
	require.NoError(t, err)
	assert.False(t, booked)

	booked, err = svc.Book(context.Background(), "s2", 99, "user-1", "")
	require.NoError(t, err)
	assert.False(t, booked)
	assert.Empty(t, repo.audits)
}

func TestBookConcurrentlyHasExactlyOneWinner(t *testing.T) {
	repo := newFakeSlotRepo()
	repo.put(availableSlot("s1"), slotRepo.LivePartition)
	svc := &DefaultSlotService{Repo: repo, Cache: NoopSlotCache{}}

	const attempts = 50
	var wg sync.WaitGroup
	results := make([]bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := svc.Book(context.Background(), "s1", int64(100+i), "user", "race")
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, ok := range results {
		if ok {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	assert.Len(t, repo.audits, 1)
	assert.Equal(t, models.SlotBooked, repo.slots["s1"].Status)
}

func TestUpdateSlotStatusTransitionTable(t *testing.T) {
	cases := []struct {
		name    string
		from    models.SlotStatus
		to      models.SlotStatus
		allowed bool
	}{
		{"available to blocked", models.SlotAvailable, models.SlotBlocked, true},
		{"available to completed", models.SlotAvailable, models.SlotCompleted, false},
		{"booked to completed", models.SlotBooked, models.SlotCompleted, true},
		{"booked to available", models.SlotBooked, models.SlotAvailable, false},
		{"blocked to available", models.SlotBlocked, models.SlotAvailable, true},
		{"blocked to completed", models.SlotBlocked, models.SlotCompleted, true},
		{"completed is terminal", models.SlotCompleted, models.SlotAvailable, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeSlotRepo()
			slot := availableSlot("s1")
			slot.Status = tc.from
			repo.put(slot, slotRepo.LivePartition)
			svc := &DefaultSlotService{Repo: repo, Cache: NoopSlotCache{}}

			ok, err := svc.UpdateSlotStatus(context.Background(), "s1", tc.to, "maintenance", "admin")
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, ok)
			if tc.allowed {
				assert.Equal(t, tc.to, repo.slots["s1"].Status)
				assert.Len(t, repo.audits, 1)
			} else {
				assert.Equal(t, tc.from, repo.slots["s1"].Status)
				assert.Empty(t, repo.audits)
			}
		})
	}
}

func TestGetSlotByIDReadThrough(t *testing.T) {
	repo := newFakeSlotRepo()
	repo.put(availableSlot("s1"), slotRepo.LivePartition)
	cache := newMemorySlotCache()
	svc := &DefaultSlotService{Repo: repo, Cache: cache}

	first, err := svc.GetSlotByID(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, repo.findCalls)

	// Second read is served from the cache without touching the store.
	second, err := svc.GetSlotByID(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 1, repo.findCalls)
	assert.Equal(t, *first, *second)
}

func TestGetSlotByIDArchivedSnapshot(t *testing.T) {
	repo := newFakeSlotRepo()
	slot := availableSlot("old")
	slot.Status = models.SlotCompleted
	repo.put(slot, slotRepo.ArchivePartition(2021))
	cache := newMemorySlotCache()
	svc := &DefaultSlotService{Repo: repo, Cache: cache}

	got, err := svc.GetSlotByID(context.Background(), "old")
	require.NoError(t, err)
	require.NotNil(t, got)

	snap, ok := cache.GetSlot(context.Background(), "old")
	require.True(t, ok)
	assert.True(t, snap.Archived)
	assert.Equal(t, slotRepo.ArchivePartition(2021), snap.Partition)
}

func TestGetSlotByIDMissing(t *testing.T) {
	svc := &DefaultSlotService{Repo: newFakeSlotRepo(), Cache: NoopSlotCache{}}
	got, err := svc.GetSlotByID(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindNextAvailableCachesList(t *testing.T) {
	repo := newFakeSlotRepo()
	repo.put(availableSlot("s1"), slotRepo.LivePartition)
	cache := newMemorySlotCache()
	svc := &DefaultSlotService{Repo: repo, Cache: cache}

	after := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	first, err := svc.FindNextAvailable(context.Background(), "practitioner", 7, after, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, repo.nextCalls)

	second, err := svc.FindNextAvailable(context.Background(), "practitioner", 7, after, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.nextCalls)
}

func TestLoserInvalidatesStaleCacheEntry(t *testing.T) {
	repo := newFakeSlotRepo()
	repo.put(availableSlot("s1"), slotRepo.LivePartition)
	cache := newMemorySlotCache()
	svc := &DefaultSlotService{Repo: repo, Cache: cache}

	// Prime the cache with a stale AVAILABLE view, then let another
	// writer win the slot out from under it.
	_, err := svc.GetSlotByID(context.Background(), "s1")
	require.NoError(t, err)
	bookingID := int64(5)
	_, err = repo.TransitionStatus(context.Background(), slotRepo.StatusTransition{
		Partition: slotRepo.LivePartition, SlotID: "s1",
		Expected: models.SlotAvailable, Next: models.SlotBooked,
		BookingID: &bookingID, ModifiedBy: "other",
		Audit: models.RetroactiveChangeLog{SlotID: "s1"},
	})
	require.NoError(t, err)

	booked, err := svc.Book(context.Background(), "s1", 99, "user-1", "")
	require.NoError(t, err)
	assert.False(t, booked)

	// The stale entry was dropped; the next read sees the winner's write.
	_, hit := cache.GetSlot(context.Background(), "s1")
	assert.False(t, hit)
	got, err := svc.GetSlotByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.SlotBooked, got.Status)
}

// File: database/repository/slot/partitions_test.go
package slotRepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivePartitionNaming(t *testing.T) {
	assert.Equal(t, "time_slots_archive_2021", ArchivePartition(2021))
	assert.True(t, IsArchive(ArchivePartition(2021)))
	assert.False(t, IsArchive(LivePartition))
	assert.False(t, IsArchive("bookings"))
}

func TestProbeOrderLiveFirstThenNewestArchives(t *testing.T) {
	calls := 0
	registry := NewPartitionRegistry(2020, func(context.Context) ([]string, error) {
		calls++
		return []string{
			LivePartition,
			ArchivePartition(2023),
			ArchivePartition(2021),
			"availability_rules", // unrelated collections are ignored
		}, nil
	})

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	order, err := registry.ProbeOrder(context.Background(), now)
	require.NoError(t, err)

	// Live first, then existing archives newest-to-oldest; 2024, 2022,
	// and 2020 have no archive and are skipped without error.
	assert.Equal(t, []string{LivePartition, ArchivePartition(2023), ArchivePartition(2021)}, order)
	assert.Equal(t, 1, calls, "one listing serves the whole probe")
}

func TestProbeOrderStopsAtFloorYear(t *testing.T) {
	registry := NewPartitionRegistry(2022, func(context.Context) ([]string, error) {
		return []string{
			LivePartition,
			ArchivePartition(2023),
			ArchivePartition(2019), // below the floor, never probed
		}, nil
	})

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	order, err := registry.ProbeOrder(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, []string{LivePartition, ArchivePartition(2023)}, order)
}

func TestExistsCachesListingWithinTTL(t *testing.T) {
	calls := 0
	registry := NewPartitionRegistry(2020, func(context.Context) ([]string, error) {
		calls++
		return []string{LivePartition, ArchivePartition(2022)}, nil
	})

	ctx := context.Background()
	exists, err := registry.Exists(ctx, ArchivePartition(2022))
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = registry.Exists(ctx, ArchivePartition(2021))
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, 1, calls)
}

func TestExistsSurfacesListingFailure(t *testing.T) {
	boom := errors.New("connection reset")
	registry := NewPartitionRegistry(2020, func(context.Context) ([]string, error) {
		return nil, boom
	})

	_, err := registry.Exists(context.Background(), LivePartition)
	assert.ErrorIs(t, err, boom)
}

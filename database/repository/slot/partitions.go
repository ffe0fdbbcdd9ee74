// File: database/repository/slot/partitions.go
package slotRepo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// LivePartition holds the current working set of slots. Archived slots
// move into one collection per calendar year.
const (
	LivePartition       = "time_slots"
	archivePrefix       = "time_slots_archive_"
	registryRefreshTTL  = 5 * time.Minute
	changeLogCollection = "retroactive_change_log"
)

// ArchivePartition returns the collection name for a given year's archive.
func ArchivePartition(year int) string {
	return fmt.Sprintf("%s%d", archivePrefix, year)
}

// PartitionRegistry keeps an explicit, ordered view of which slot
// partitions exist. Existence is refreshed from the collection listing
// at most once per TTL; absence of an archive is a normal outcome, not
// an error.
type PartitionRegistry struct {
	mu        sync.RWMutex
	floorYear int
	known     map[string]bool
	fetchedAt time.Time
	list      func(ctx context.Context) ([]string, error)
}

// NewPartitionRegistry builds a registry probing archives from the
// current year down to floorYear. list enumerates existing collections.
func NewPartitionRegistry(floorYear int, list func(ctx context.Context) ([]string, error)) *PartitionRegistry {
	return &PartitionRegistry{
		floorYear: floorYear,
		known:     make(map[string]bool),
		list:      list,
	}
}

func (r *PartitionRegistry) refresh(ctx context.Context) error {
	names, err := r.list(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	known := make(map[string]bool, len(names))
	for _, name := range names {
		if name == LivePartition || strings.HasPrefix(name, archivePrefix) {
			known[name] = true
		}
	}
	r.known = known
	r.fetchedAt = time.Now()
	return nil
}

// Exists reports whether the named partition currently exists.
func (r *PartitionRegistry) Exists(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	fresh := time.Since(r.fetchedAt) < registryRefreshTTL
	exists := r.known[name]
	r.mu.RUnlock()
	if fresh {
		return exists, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.fetchedAt) >= registryRefreshTTL {
		if err := r.refresh(ctx); err != nil {
			return false, err
		}
	}
	return r.known[name], nil
}

// ProbeOrder returns the partitions to consult for an id lookup: the
// live collection first, then archives from the current year down to
// the floor year, skipping years with no archive.
func (r *PartitionRegistry) ProbeOrder(ctx context.Context, now time.Time) ([]string, error) {
	order := []string{LivePartition}
	for year := now.Year(); year >= r.floorYear; year-- {
		name := ArchivePartition(year)
		exists, err := r.Exists(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			order = append(order, name)
		}
	}
	return order, nil
}

// IsArchive reports whether a partition name refers to a yearly archive.
func IsArchive(partition string) bool {
	return strings.HasPrefix(partition, archivePrefix)
}

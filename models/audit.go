package models

import "time"

// RetroactiveChangeLog is the append-only audit trail: one entry per
// slot status transition, recording the partition the slot was found in
// at transition time.
type RetroactiveChangeLog struct {
	ID            string     `bson:"id" json:"id"`
	SlotID        string     `bson:"slotId" json:"slotId"`
	SlotPartition string     `bson:"slotPartition" json:"slotPartition"`
	ModifiedBy    string     `bson:"modifiedBy" json:"modifiedBy"`
	FromStatus    SlotStatus `bson:"fromStatus" json:"fromStatus"`
	ToStatus      SlotStatus `bson:"toStatus" json:"toStatus"`
	Reason        string     `bson:"reason,omitempty" json:"reason,omitempty"`
	ResourceType  string     `bson:"resourceType" json:"resourceType"`
	ResourceID    int64      `bson:"resourceId" json:"resourceId"`
	TenantID      int64      `bson:"tenantId" json:"tenantId"`
	SlotDate      string     `bson:"slotDate" json:"slotDate"` // "2006-01-02"
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
}

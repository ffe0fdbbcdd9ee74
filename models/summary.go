package models

// OccupancySummary is an hourly-bucketed, eventually-consistent count of
// slot statuses. Buckets are rebuilt wholesale from slot data, never
// patched incrementally.
type OccupancySummary struct {
	ResourceType       string `bson:"resourceType" json:"resourceType"`
	ResourceID         int64  `bson:"resourceId" json:"resourceId"`
	TenantID           int64  `bson:"tenantId" json:"tenantId"`
	Date               string `bson:"date" json:"date"` // "2006-01-02"
	Hour               int    `bson:"hour" json:"hour"`
	TotalSlots         int    `bson:"totalSlots" json:"totalSlots"`
	AvailableSlots     int    `bson:"availableSlots" json:"availableSlots"`
	BookedSlots        int    `bson:"bookedSlots" json:"bookedSlots"`
	BlockedSlots       int    `bson:"blockedSlots" json:"blockedSlots"`
	CompletedSlots     int    `bson:"completedSlots" json:"completedSlots"`
	NeedsRecalculation bool   `bson:"needsRecalculation" json:"needsRecalculation"`
}

// HistoricalOccupancySummary aggregates a resource's occupancy per
// calendar month for reporting over archived slot data.
type HistoricalOccupancySummary struct {
	ResourceType       string  `bson:"resourceType" json:"resourceType"`
	ResourceID         int64   `bson:"resourceId" json:"resourceId"`
	TenantID           int64   `bson:"tenantId" json:"tenantId"`
	Year               int     `bson:"year" json:"year"`
	Month              int     `bson:"month" json:"month"`
	TotalSlots         int     `bson:"totalSlots" json:"totalSlots"`
	BookedSlots        int     `bson:"bookedSlots" json:"bookedSlots"`
	OccupancyRate      float64 `bson:"occupancyRate" json:"occupancyRate"`
	NeedsRecalculation bool    `bson:"needsRecalculation" json:"needsRecalculation"`
}

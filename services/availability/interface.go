// File: services/availability/interface.go
package availability

import (
	"context"
	"time"

	"slotwise/models"
)

// Reason identifies which stage of the precedence chain rejected a
// request.
type Reason string

const (
	ReasonException        Reason = "EXCEPTION"
	ReasonRuleMismatch     Reason = "RULE_MISMATCH"
	ReasonPatternBlock     Reason = "PATTERN_BLOCK"
	ReasonSpecificOverride Reason = "SPECIFIC_OVERRIDE"
)

// RecurrencePredicate evaluates a pattern's recurrence expression at an
// instant. Implementations are external collaborators; the resolver
// only defines the slot in the pipeline.
type RecurrencePredicate func(patternID int64, instant time.Time) bool

// AvailabilityService answers whether a resource is bookable in a
// requested window.
type AvailabilityService interface {
	CheckAvailability(ctx context.Context, req models.AvailabilityCheckRequest) (models.AvailabilityCheckResponse, error)
	CreateRule(ctx context.Context, rule models.AvailabilityRule) error
}

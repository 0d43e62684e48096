package entitlements

import (
	"github.com/ManuelReschke/SubFox/app/models"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPaid Plan = "paid"
)

// DefaultNoteLimit is stamped on every reconciled subscription row. Limits are
// not differentiated per price at reconciliation time.
const DefaultNoteLimit = 3

// FreeNoteLimit applies to users without a live subscription.
const FreeNoteLimit = 0

// IsEntitlingStatus reports whether a subscription status grants paid access.
func IsEntitlingStatus(status string) bool {
	switch status {
	case models.SubscriptionStatusActive, models.SubscriptionStatusTrialing:
		return true
	default:
		return false
	}
}

// PlanFor returns the plan implied by a user's current subscription, which may be nil.
func PlanFor(sub *models.Subscription) Plan {
	if sub != nil && IsEntitlingStatus(sub.Status) {
		return PlanPaid
	}
	return PlanFree
}

// NoteLimit returns the effective note limit for a user's current subscription.
func NoteLimit(sub *models.Subscription) int {
	if PlanFor(sub) == PlanFree {
		return FreeNoteLimit
	}
	if sub.NoteLimit <= 0 {
		return DefaultNoteLimit
	}
	return sub.NoteLimit
}

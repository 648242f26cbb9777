package subscriptions

import (
	"time"

	"github.com/beworking/beworking-backend/pkg/db/models"
	"github.com/beworking/beworking-backend/pkg/enums"
	pkgstripe "github.com/beworking/beworking-backend/pkg/stripe"
)

// Provider-side subscription statuses we map onto the local lifecycle.
const (
	providerStatusActive   = "active"
	providerStatusPastDue  = "past_due"
	providerStatusCanceled = "canceled"
	providerStatusUnpaid   = "unpaid"
)

// Apply folds one webhook event into the user's subscription columns and
// reports whether anything changed. The function is pure over the user row:
// callers own loading, locking, and persisting. Replaying an event a second
// time yields no change.
func Apply(user *models.User, event pkgstripe.Event, now time.Time) bool {
	if user == nil || event == nil {
		return false
	}

	switch ev := event.(type) {
	case pkgstripe.CheckoutCompleted:
		return applyCheckoutCompleted(user, ev, now)
	case pkgstripe.SubscriptionUpdated:
		return applySubscriptionUpdated(user, ev)
	case pkgstripe.SubscriptionDeleted:
		return setStatus(user, enums.SubscriptionStatusExpired)
	default:
		return false
	}
}

func applyCheckoutCompleted(user *models.User, ev pkgstripe.CheckoutCompleted, now time.Time) bool {
	changed := false

	if ev.SubscriptionID != "" && !equalPtr(user.StripeSubscriptionID, ev.SubscriptionID) {
		id := ev.SubscriptionID
		user.StripeSubscriptionID = &id
		changed = true
	}
	if user.SubscriptionStatus != enums.SubscriptionStatusActive {
		user.SubscriptionStatus = enums.SubscriptionStatusActive
		start := now.UTC()
		user.SubscriptionStart = &start
		changed = true
	}
	return changed
}

func applySubscriptionUpdated(user *models.User, ev pkgstripe.SubscriptionUpdated) bool {
	status, known := mapProviderStatus(ev.ProviderStatus)
	if !known {
		return false
	}

	changed := setStatus(user, status)
	if ev.PeriodStart != nil && !equalTimePtr(user.SubscriptionStart, ev.PeriodStart) {
		user.SubscriptionStart = ev.PeriodStart
		changed = true
	}
	if ev.PeriodEnd != nil && !equalTimePtr(user.SubscriptionEnd, ev.PeriodEnd) {
		user.SubscriptionEnd = ev.PeriodEnd
		changed = true
	}
	return changed
}

func mapProviderStatus(status string) (enums.SubscriptionStatus, bool) {
	switch status {
	case providerStatusActive:
		return enums.SubscriptionStatusActive, true
	case providerStatusPastDue:
		return enums.SubscriptionStatusPastDue, true
	case providerStatusCanceled, providerStatusUnpaid:
		return enums.SubscriptionStatusCancelled, true
	default:
		return "", false
	}
}

func setStatus(user *models.User, status enums.SubscriptionStatus) bool {
	if user.SubscriptionStatus == status {
		return false
	}
	user.SubscriptionStatus = status
	return true
}

func equalPtr(have *string, want string) bool {
	return have != nil && *have == want
}

func equalTimePtr(have, want *time.Time) bool {
	if have == nil || want == nil {
		return have == want
	}
	return have.Equal(*want)
}

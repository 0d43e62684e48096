package billing

import (
	"errors"
	"strings"
	"time"

	"github.com/ManuelReschke/SubFox/app/models"
)

// normalizeStatus maps a provider subscription status to the local
// enumeration. Unknown values such as "paused" become incomplete.
func normalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	switch s {
	case models.SubscriptionStatusTrialing,
		models.SubscriptionStatusActive,
		models.SubscriptionStatusIncomplete,
		models.SubscriptionStatusIncompleteExpired,
		models.SubscriptionStatusPastDue,
		models.SubscriptionStatusCanceled,
		models.SubscriptionStatusUnpaid:
		return s
	default:
		return models.SubscriptionStatusIncomplete
	}
}

func normalizeInterval(interval string) string {
	switch i := strings.ToLower(strings.TrimSpace(interval)); i {
	case models.PriceIntervalDay, models.PriceIntervalWeek, models.PriceIntervalMonth, models.PriceIntervalYear:
		return i
	default:
		return models.PriceIntervalDay
	}
}

func epochTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// optionalEpoch treats zero as absent.
func optionalEpoch(sec int64) *time.Time {
	if sec == 0 {
		return nil
	}
	t := epochTime(sec)
	return &t
}

// errorKind names the taxonomy bucket of err for logs and metric labels.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownCustomer):
		return "unknown_customer"
	case errors.Is(err, ErrCreateCustomerFailed):
		return "create_customer_failed"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, ErrSyncFailed):
		return "sync_failed"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrUnhandledEventType):
		return "unhandled_event_type"
	default:
		return "error"
	}
}

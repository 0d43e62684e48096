package billing

import "errors"

var (
	// ErrUnknownCustomer means a subscription event referenced a provider
	// customer that has no local Customer row.
	ErrUnknownCustomer      = errors.New("billing: unknown customer")
	ErrCreateCustomerFailed = errors.New("billing: create customer failed")
	ErrFetchFailed          = errors.New("billing: provider fetch failed")
	ErrSyncFailed           = errors.New("billing: sync failed")
	ErrSignatureInvalid     = errors.New("billing: webhook signature invalid")
	// ErrUnhandledEventType is returned for a recognized event whose payload
	// has no handler. Unrecognized events are dropped before this point.
	ErrUnhandledEventType = errors.New("billing: unhandled event type")
)

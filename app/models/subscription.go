package models

import "time"

const (
	SubscriptionStatusTrialing          = "trialing"
	SubscriptionStatusActive            = "active"
	SubscriptionStatusIncomplete        = "incomplete"
	SubscriptionStatusIncompleteExpired = "incomplete_expired"
	SubscriptionStatusPastDue           = "past_due"
	SubscriptionStatusCanceled          = "canceled"
	SubscriptionStatusUnpaid            = "unpaid"
)

// Subscription mirrors a provider subscription. Rows are replaced wholesale on
// every reconciliation; nothing here is patched incrementally.
type Subscription struct {
	ID                 string     `gorm:"primaryKey;type:varchar(191)" json:"id"`
	UserID             uint       `gorm:"not null;index:idx_subscriptions_user_status,priority:1" json:"user_id"`
	Status             string     `gorm:"type:varchar(32);not null;index:idx_subscriptions_user_status,priority:2" json:"status"`
	Metadata           Metadata   `gorm:"type:text" json:"metadata"`
	PriceID            string     `gorm:"type:varchar(191);not null;index" json:"price_id"`
	Quantity           int64      `gorm:"not null" json:"quantity"`
	CancelAtPeriodEnd  bool       `gorm:"not null" json:"cancel_at_period_end"`
	Created            time.Time  `gorm:"column:created;not null" json:"created"`
	CurrentPeriodStart time.Time  `gorm:"not null" json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `gorm:"not null" json:"current_period_end"`
	EndedAt            *time.Time `json:"ended_at"`
	CancelAt           *time.Time `json:"cancel_at"`
	CanceledAt         *time.Time `json:"canceled_at"`
	TrialStart         *time.Time `json:"trial_start"`
	TrialEnd           *time.Time `json:"trial_end"`
	NoteLimit          int        `gorm:"not null" json:"note_limit"`

	Price *Price `gorm:"foreignKey:PriceID" json:"price,omitempty"`
}

// IsLive reports whether the subscription currently grants access.
func (s *Subscription) IsLive() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}

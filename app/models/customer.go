package models

import "time"

// Customer links an internal user to its provider customer record. The user id
// is the primary key, so a user can never own two provider customers.
type Customer struct {
	ID               uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	StripeCustomerID string    `gorm:"type:varchar(191);not null;uniqueIndex" json:"stripe_customer_id"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

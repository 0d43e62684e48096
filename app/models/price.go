package models

import "time"

const (
	PricingTypeOneTime   = "one_time"
	PricingTypeRecurring = "recurring"
)

const (
	PriceIntervalDay   = "day"
	PriceIntervalWeek  = "week"
	PriceIntervalMonth = "month"
	PriceIntervalYear  = "year"
)

// Price mirrors a provider catalog price. UnitAmount is in minor currency units.
type Price struct {
	ID              string    `gorm:"primaryKey;type:varchar(191)" json:"id"`
	ProductID       string    `gorm:"type:varchar(191);not null;index" json:"product_id"`
	Active          bool      `gorm:"not null;index" json:"active"`
	Description     *string   `gorm:"type:text" json:"description"`
	UnitAmount      int64     `gorm:"not null" json:"unit_amount"`
	Currency        string    `gorm:"type:varchar(3);not null" json:"currency"`
	PricingType     string    `gorm:"column:type;type:varchar(16);not null" json:"type"`
	Interval        string    `gorm:"type:varchar(8);not null" json:"interval"`
	IntervalCount   *int64    `json:"interval_count"`
	TrialPeriodDays *int64    `json:"trial_period_days"`
	Metadata        Metadata  `gorm:"type:text" json:"metadata"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// IsRecurring reports whether the price bills on an interval.
func (p *Price) IsRecurring() bool {
	return p.PricingType == PricingTypeRecurring
}

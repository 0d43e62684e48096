package models

import "time"

// Product mirrors a provider catalog product.
type Product struct {
	ID          string    `gorm:"primaryKey;type:varchar(191)" json:"id"`
	Active      bool      `gorm:"not null;index" json:"active"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Image       *string   `gorm:"type:varchar(512)" json:"image"`
	Metadata    Metadata  `gorm:"type:text" json:"metadata"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`

	Prices []Price `gorm:"foreignKey:ProductID" json:"prices,omitempty"`
}

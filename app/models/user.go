package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	STATUS_ACTIVE   = "active"
	STATUS_DISABLED = "disabled"
)

// User is the internal identity. Logins are delegated to OAuth providers and
// linked through ProviderAccount; billing linkage lives in Customer.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	Email          string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	AvatarURL      string         `gorm:"type:varchar(255);default:null" json:"avatar_url" validate:"max=255"`
	Status         string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active disabled"`
	BillingAddress string         `gorm:"type:text" json:"-"`
	PaymentMethod  string         `gorm:"type:text" json:"-"`
	LastLoginAt    *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// HasBillingDetails reports whether billing details were copied from a payment method.
func (u *User) HasBillingDetails() bool {
	return u.BillingAddress != ""
}

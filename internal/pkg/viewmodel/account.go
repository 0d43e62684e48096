package viewmodel

import (
	"time"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/internal/pkg/entitlements"
)

type AccountPage struct {
	Layout
	Name              string
	Email             string
	HasSubscription   bool
	PlanName          string
	PriceLabel        string
	Status            string
	PeriodEnd         string
	CancelAtPeriodEnd bool
	NoteLimit         int
}

// NewAccountPage describes the user's account and current plan. sub may be nil.
func NewAccountPage(layout Layout, name, email string, sub *models.Subscription) AccountPage {
	page := AccountPage{
		Layout:    layout,
		Name:      name,
		Email:     email,
		NoteLimit: entitlements.NoteLimit(sub),
	}
	if sub == nil {
		return page
	}

	page.HasSubscription = true
	page.Status = sub.Status
	page.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
	if !sub.CurrentPeriodEnd.IsZero() {
		page.PeriodEnd = sub.CurrentPeriodEnd.UTC().Format(time.DateOnly)
	}
	if pr := sub.Price; pr != nil {
		page.PriceLabel = FormatPrice(pr.UnitAmount, pr.Currency, pr.Interval)
		if pr.Product != nil {
			page.PlanName = pr.Product.Name
		}
	}
	return page
}

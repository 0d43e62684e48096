package viewmodel

import (
	"github.com/ManuelReschke/SubFox/app/models"
)

// Billing intervals offered by the pricing toggle.
const (
	IntervalMonth = models.PriceIntervalMonth
	IntervalYear  = models.PriceIntervalYear
)

type PriceOption struct {
	ID        string
	Amount    string
	Interval  string
	Recurring bool
}

type ProductCard struct {
	ID          string
	Name        string
	Description string
	Image       string
	Price       PriceOption
	// Current is set when the user is subscribed to this product.
	Current bool
}

type IntervalTab struct {
	Interval string
	Label    string
	Active   bool
}

type PricingPage struct {
	Layout
	Interval   string
	Intervals  []IntervalTab
	Products   []ProductCard
	Subscribed bool
}

// NewPricingPage builds the pricing page for the selected interval. Products
// without an active price in that interval are left out.
func NewPricingPage(layout Layout, products []models.Product, interval string, sub *models.Subscription) PricingPage {
	if interval != IntervalYear {
		interval = IntervalMonth
	}

	page := PricingPage{
		Layout:     layout,
		Interval:   interval,
		Subscribed: sub != nil,
	}

	for _, iv := range []string{IntervalMonth, IntervalYear} {
		if !offersInterval(products, iv) {
			continue
		}
		page.Intervals = append(page.Intervals, IntervalTab{
			Interval: iv,
			Label:    intervalLabel(iv),
			Active:   iv == interval,
		})
	}

	currentProduct := ""
	if sub != nil && sub.Price != nil {
		currentProduct = sub.Price.ProductID
	}

	for _, p := range products {
		price := priceFor(p, interval)
		if price == nil {
			continue
		}
		page.Products = append(page.Products, ProductCard{
			ID:          p.ID,
			Name:        p.Name,
			Description: deref(p.Description),
			Image:       deref(p.Image),
			Price: PriceOption{
				ID:        price.ID,
				Amount:    FormatAmount(price.UnitAmount, price.Currency),
				Interval:  price.Interval,
				Recurring: price.IsRecurring(),
			},
			Current: currentProduct != "" && currentProduct == p.ID,
		})
	}

	return page
}

func offersInterval(products []models.Product, interval string) bool {
	for _, p := range products {
		if priceFor(p, interval) != nil {
			return true
		}
	}
	return false
}

func priceFor(p models.Product, interval string) *models.Price {
	for i := range p.Prices {
		pr := &p.Prices[i]
		if pr.Active && pr.Interval == interval {
			return pr
		}
	}
	return nil
}

func intervalLabel(interval string) string {
	switch interval {
	case IntervalYear:
		return "Yearly billing"
	default:
		return "Monthly billing"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

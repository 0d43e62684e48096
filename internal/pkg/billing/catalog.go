package billing

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/SubFox/app/models"
)

// Defaults applied when a price snapshot omits a field.
const (
	DefaultUnitAmount int64 = 1
	DefaultInterval         = models.PriceIntervalDay
)

// ProductRow converts a snapshot into the stored row. Absent optional fields
// stay absent; nothing is carried over from a previous row.
func ProductRow(p ProductSnapshot) *models.Product {
	return &models.Product{
		ID:          p.ID,
		Active:      p.Active,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Metadata:    metadataOf(p.Metadata),
	}
}

// PriceRow converts a snapshot into the stored row, applying the unit amount
// and interval defaults.
func PriceRow(p PriceSnapshot) *models.Price {
	row := &models.Price{
		ID:          p.ID,
		ProductID:   p.ProductID,
		Active:      p.Active,
		Currency:    p.Currency,
		Description: p.Description,
		PricingType: p.Type,
		UnitAmount:  DefaultUnitAmount,
		Interval:    DefaultInterval,
		Metadata:    metadataOf(p.Metadata),
	}
	if p.UnitAmount != nil {
		row.UnitAmount = *p.UnitAmount
	}
	if r := p.Recurring; r != nil {
		if r.Interval != "" {
			row.Interval = normalizeInterval(r.Interval)
		}
		row.IntervalCount = r.IntervalCount
		row.TrialPeriodDays = r.TrialPeriodDays
	}
	return row
}

func metadataOf(m map[string]string) models.Metadata {
	out := models.Metadata{}
	for k, v := range m {
		out[k] = v
	}
	return out
}

// UpsertProduct replaces the stored product with the snapshot.
func (s *Service) UpsertProduct(ctx context.Context, p ProductSnapshot) error {
	if err := s.repo.UpsertProduct(ctx, ProductRow(p)); err != nil {
		log.Errorf("[Billing] Upsert product %s failed: %v", p.ID, err)
		return fmt.Errorf("%w: product %s: %w", ErrSyncFailed, p.ID, err)
	}
	log.Infof("[Billing] Product inserted/updated: %s", p.ID)
	s.invalidateCatalog(ctx)
	return nil
}

// UpsertPrice replaces the stored price with the snapshot.
func (s *Service) UpsertPrice(ctx context.Context, p PriceSnapshot) error {
	if err := s.repo.UpsertPrice(ctx, PriceRow(p)); err != nil {
		log.Errorf("[Billing] Upsert price %s failed: %v", p.ID, err)
		return fmt.Errorf("%w: price %s: %w", ErrSyncFailed, p.ID, err)
	}
	log.Infof("[Billing] Price inserted/updated: %s", p.ID)
	s.invalidateCatalog(ctx)
	return nil
}

// SyncCatalog backfills every provider product, then every price.
func (s *Service) SyncCatalog(ctx context.Context) (products, prices int, err error) {
	err = s.provider.ListProducts(ctx, func(p ProductSnapshot) error {
		if err := s.UpsertProduct(ctx, p); err != nil {
			return err
		}
		products++
		return nil
	})
	if err != nil {
		return products, prices, fmt.Errorf("sync products: %w", err)
	}

	err = s.provider.ListPrices(ctx, func(p PriceSnapshot) error {
		if err := s.UpsertPrice(ctx, p); err != nil {
			return err
		}
		prices++
		return nil
	})
	if err != nil {
		return products, prices, fmt.Errorf("sync prices: %w", err)
	}
	return products, prices, nil
}

// ListCatalog returns active products with their active prices. The cache is
// consulted first; cache faults fall through to the database.
func (s *Service) ListCatalog(ctx context.Context) ([]models.Product, error) {
	fill := false
	var gen int64
	if s.catalog != nil {
		products, ok, err := s.catalog.GetCatalog(ctx)
		switch {
		case err != nil:
			log.Warnf("[Billing] Catalog cache read failed: %v", err)
		case ok:
			return products, nil
		default:
			if gen, err = s.catalog.Generation(ctx); err != nil {
				log.Warnf("[Billing] Catalog cache generation read failed: %v", err)
			} else {
				fill = true
			}
		}
	}

	products, err := s.repo.ListActiveProductsWithPrices(ctx)
	if err != nil {
		return nil, err
	}

	if fill {
		if err := s.catalog.SetCatalog(ctx, gen, products); err != nil {
			log.Warnf("[Billing] Catalog cache write failed: %v", err)
		}
	}
	return products, nil
}

func (s *Service) invalidateCatalog(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(ctx); err != nil {
		log.Warnf("[Billing] Catalog cache invalidation failed: %v", err)
	}
}

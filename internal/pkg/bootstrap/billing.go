package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/internal/pkg/billing"
	"github.com/ManuelReschke/SubFox/internal/pkg/cache"
	"github.com/ManuelReschke/SubFox/internal/pkg/env"
	"github.com/ManuelReschke/SubFox/internal/pkg/eventarchive"
)

// BillingService wires the billing core with Stripe, the catalog cache, the
// optional event archive and metrics. rdb and reg may be nil.
func BillingService(ctx context.Context, cfg env.Config, db *gorm.DB, rdb *redis.Client, reg prometheus.Registerer) (*billing.Service, error) {
	apiKey := cfg.StripeAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}

	var opts []billing.Option
	if rdb != nil {
		opts = append(opts, billing.WithCatalogCache(cache.NewCatalogCache(rdb, cache.DefaultCatalogTTL)))
	}
	if reg != nil {
		opts = append(opts, billing.WithMetrics(billing.NewMetrics(reg)))
	}
	if cfg.Archive.Enabled {
		archive, err := eventarchive.New(ctx, cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("event archive: %w", err)
		}
		opts = append(opts, billing.WithEventArchive(archive))
	}

	return billing.NewServiceFromDB(db, billing.NewStripeProvider(apiKey), opts...), nil
}

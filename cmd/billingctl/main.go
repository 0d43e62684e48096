package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ManuelReschke/SubFox/internal/pkg/bootstrap"
	"github.com/ManuelReschke/SubFox/internal/pkg/cache"
	"github.com/ManuelReschke/SubFox/internal/pkg/database"
	"github.com/ManuelReschke/SubFox/internal/pkg/env"
)

// billingOps is the part of billing.Service the admin commands drive.
type billingOps interface {
	SyncCatalog(ctx context.Context) (products, prices int, err error)
	Reconcile(ctx context.Context, subscriptionID, customerID string, isNew bool) error
}

type connectFunc func(ctx context.Context) (billingOps, error)

func main() {
	if err := newRootCmd(connect).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// connect wires the billing service the same way the server does, minus metrics.
func connect(ctx context.Context) (billingOps, error) {
	env.SetupEnvFile()
	cfg, err := env.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	rdb := cache.NewClient(ctx, cfg.Cache)
	return bootstrap.BillingService(ctx, cfg, db, rdb, nil)
}

func newRootCmd(connect connectFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "billingctl",
		Short:         "SubFox billing administration",
		Long:          `billingctl backfills the product catalog and re-runs subscription reconciliation against Stripe.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSyncCatalogCmd(connect), newReconcileCmd(connect))
	return root
}

func newSyncCatalogCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-catalog",
		Short: "Copy all Stripe products and prices into the local catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			products, prices, err := svc.SyncCatalog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d products and %d prices\n", products, prices)
			return nil
		},
	}
}

func newReconcileCmd(connect connectFunc) *cobra.Command {
	var (
		subscriptionID string
		customerID     string
		isNew          bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Fetch a subscription from Stripe and store it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			if err := svc.Reconcile(cmd.Context(), subscriptionID, customerID, isNew); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled subscription %s for customer %s\n", subscriptionID, customerID)
			return nil
		},
	}

	cmd.Flags().StringVar(&subscriptionID, "subscription", "", "Stripe subscription id (sub_...)")
	cmd.Flags().StringVar(&customerID, "customer", "", "Stripe customer id (cus_...)")
	cmd.Flags().BoolVar(&isNew, "new", false, "treat as a new subscription and copy billing details")
	_ = cmd.MarkFlagRequired("subscription")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

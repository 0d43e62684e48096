package bootstrap

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/SubFox/internal/pkg/env"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestBillingServiceRequiresStripeKey(t *testing.T) {
	_, err := BillingService(context.Background(), env.Config{}, nil, nil, nil)
	assert.ErrorContains(t, err, "STRIPE_SECRET_KEY")
}

func TestBillingServiceWithoutArchive(t *testing.T) {
	out := captureLog(t)

	svc, err := BillingService(context.Background(), env.Config{StripeSecretKey: "sk_test_123"}, nil, nil, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.NotContains(t, out.String(), "[EventArchive]")
}

func TestBillingServiceArchiveErrorsAreReturned(t *testing.T) {
	out := captureLog(t)

	cfg := env.Config{
		StripeSecretKey: "sk_test_123",
		Archive:         env.ArchiveConfig{Enabled: true, AccessKeyID: "key", SecretAccessKey: "secret"},
	}
	_, err := BillingService(context.Background(), cfg, nil, nil, nil)
	assert.ErrorContains(t, err, "S3_BUCKET_NAME")
	assert.NotContains(t, out.String(), "Archiving webhook events")
}

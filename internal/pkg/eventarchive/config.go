package eventarchive

import (
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/SubFox/internal/pkg/env"
)

// Validate checks the settings required when the archive is enabled.
func Validate(cfg env.ArchiveConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.AccessKeyID == "" {
		return errors.New("S3_ACCESS_KEY_ID is required when the event archive is enabled")
	}
	if cfg.SecretAccessKey == "" {
		return errors.New("S3_SECRET_ACCESS_KEY is required when the event archive is enabled")
	}
	if cfg.Bucket == "" {
		return errors.New("S3_BUCKET_NAME is required when the event archive is enabled")
	}
	return nil
}

// ObjectKey returns the storage key for an event received at t.
// Format: events/YYYY/MM/DD/<event id>.json
func ObjectKey(eventID string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("events/%04d/%02d/%02d/%s.json", t.Year(), int(t.Month()), t.Day(), eventID)
}

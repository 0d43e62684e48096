package repository

import (
	"context"
	"time"

	"github.com/ManuelReschke/SubFox/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

// ExternalIdentity is the provider-side identity returned after an OAuth login.
type ExternalIdentity struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
	AccessToken    string
	RefreshToken   string
	ExpiresAt      *time.Time
}

// ProviderAccountRepository links OAuth identities to users
type ProviderAccountRepository interface {
	// LinkIdentity returns the user for an identity, creating the user and the
	// provider link on first login and refreshing tokens afterwards.
	LinkIdentity(ctx context.Context, id ExternalIdentity) (*models.User, error)
}

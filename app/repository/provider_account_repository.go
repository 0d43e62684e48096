package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ManuelReschke/SubFox/app/models"
	"github.com/ManuelReschke/SubFox/internal/pkg/utils"
)

type providerAccountRepository struct {
	db *gorm.DB
}

// NewProviderAccountRepository creates a new provider account repository instance
func NewProviderAccountRepository(db *gorm.DB) ProviderAccountRepository {
	return &providerAccountRepository{db: db}
}

func (r *providerAccountRepository) LinkIdentity(ctx context.Context, id ExternalIdentity) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pa models.ProviderAccount
		res := tx.Where("provider = ? AND provider_user_id = ?", id.Provider, id.ProviderUserID).First(&pa)

		switch {
		case res.Error == nil:
			pa.AccessToken = id.AccessToken
			pa.RefreshToken = id.RefreshToken
			pa.ExpiresAt = id.ExpiresAt
			if err := tx.Save(&pa).Error; err != nil {
				return fmt.Errorf("update tokens: %w", err)
			}
			return tx.First(&user, pa.UserID).Error

		case errors.Is(res.Error, gorm.ErrRecordNotFound):
			// Optional email match if provided
			if id.Email != "" {
				if err := tx.Where("email = ?", id.Email).First(&user).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
			if user.ID == 0 {
				user = models.User{
					Name:      id.Name,
					Email:     identityEmail(id),
					AvatarURL: utils.AvatarURL(id.AvatarURL, id.Email, 0),
					Status:    models.STATUS_ACTIVE,
				}
				if err := tx.Create(&user).Error; err != nil {
					return fmt.Errorf("create user: %w", err)
				}
			}
			pa = models.ProviderAccount{
				UserID:         user.ID,
				Provider:       id.Provider,
				ProviderUserID: id.ProviderUserID,
				AccessToken:    id.AccessToken,
				RefreshToken:   id.RefreshToken,
				ExpiresAt:      id.ExpiresAt,
			}
			if err := tx.Create(&pa).Error; err != nil {
				return fmt.Errorf("link provider: %w", err)
			}
			return nil

		default:
			return res.Error
		}
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// identityEmail keeps the unique email index satisfied for providers that
// withhold the address.
func identityEmail(id ExternalIdentity) string {
	if id.Email != "" {
		return id.Email
	}
	return fmt.Sprintf("%s_%s@%s.oauth.local", id.Provider, id.ProviderUserID, id.Provider)
}

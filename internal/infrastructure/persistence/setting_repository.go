package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tecbunny/backend/internal/domain/integration"
	"github.com/tecbunny/backend/internal/domain/shared"
	"github.com/tecbunny/backend/internal/infrastructure/persistence/models"
)

// GormSettingRepository implements the TokenStore port over the
// integration_settings key/value table. Credentials and the token pair
// survive process restarts through this table.
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// Get returns the stored value and expiry for a setting key
func (r *GormSettingRepository) Get(ctx context.Context, key string) (string, *time.Time, error) {
	var model models.IntegrationSettingModel
	if err := r.db.WithContext(ctx).First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, shared.ErrNotFound
		}
		return "", nil, err
	}
	return model.Value, model.ExpiresAt, nil
}

// Set writes a setting value, replacing any previous value for the key
func (r *GormSettingRepository) Set(ctx context.Context, key, value string, expiresAt *time.Time) error {
	model := models.IntegrationSettingModel{
		Key:       key,
		Value:     value,
		ExpiresAt: expiresAt,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&model).Error
}

// Ensure GormSettingRepository implements the TokenStore port
var _ integration.TokenStore = (*GormSettingRepository)(nil)

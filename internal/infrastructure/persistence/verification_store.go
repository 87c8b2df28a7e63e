package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVerificationStore keeps phone verifications in the phone_verifications table
type GormVerificationStore struct {
	db *gorm.DB
}

// NewGormVerificationStore creates a new GormVerificationStore
func NewGormVerificationStore(db *gorm.DB) *GormVerificationStore {
	return &GormVerificationStore{db: db}
}

var _ verification.Store = (*GormVerificationStore)(nil)

// Save creates or replaces the verification for v.Phone
func (s *GormVerificationStore) Save(ctx context.Context, v *verification.PhoneVerification) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			UpdateAll: true,
		}).
		Create(models.PhoneVerificationModelFromDomain(v)).Error
}

// Get returns the verification for phone
func (s *GormVerificationStore) Get(ctx context.Context, phone string) (*verification.PhoneVerification, error) {
	var model models.PhoneVerificationModel
	if err := s.db.WithContext(ctx).First(&model, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Delete removes the verification for phone
func (s *GormVerificationStore) Delete(ctx context.Context, phone string) error {
	return s.db.WithContext(ctx).Delete(&models.PhoneVerificationModel{}, "phone = ?", phone).Error
}

// PurgeExpired removes verifications that expired before now
func (s *GormVerificationStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.PhoneVerificationModel{})
	return result.RowsAffected, result.Error
}

package models

import (
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/verification"
)

// PhoneVerificationModel stores one pending or verified code per phone
type PhoneVerificationModel struct {
	Phone      string     `gorm:"type:varchar(20);primaryKey"`
	CodeHash   string     `gorm:"type:char(64);not null"`
	ExpiresAt  time.Time  `gorm:"not null;index"`
	Verified   bool       `gorm:"not null;default:false"`
	VerifiedAt *time.Time
	Attempts   int        `gorm:"not null;default:0"`
	CreatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PhoneVerificationModel) TableName() string {
	return "phone_verifications"
}

// ToDomain converts the persistence model to a domain PhoneVerification
func (m *PhoneVerificationModel) ToDomain() *verification.PhoneVerification {
	v := &verification.PhoneVerification{
		Phone:     m.Phone,
		CodeHash:  m.CodeHash,
		ExpiresAt: m.ExpiresAt.UTC(),
		Verified:  m.Verified,
		Attempts:  m.Attempts,
		CreatedAt: m.CreatedAt.UTC(),
	}
	if m.VerifiedAt != nil {
		at := m.VerifiedAt.UTC()
		v.VerifiedAt = &at
	}
	return v
}

// PhoneVerificationModelFromDomain creates a persistence model from a domain PhoneVerification
func PhoneVerificationModelFromDomain(v *verification.PhoneVerification) *PhoneVerificationModel {
	return &PhoneVerificationModel{
		Phone:      v.Phone,
		CodeHash:   v.CodeHash,
		ExpiresAt:  v.ExpiresAt,
		Verified:   v.Verified,
		VerifiedAt: v.VerifiedAt,
		Attempts:   v.Attempts,
		CreatedAt:  v.CreatedAt,
	}
}

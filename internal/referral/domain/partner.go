package domain

import (
	"time"

	"gorm.io/gorm"
)

// Tier buckets a partner's cumulative referral count into a commission rate.
type Tier string

const (
	Tier1 Tier = "tier1"
	Tier2 Tier = "tier2"
	Tier3 Tier = "tier3"
	Tier4 Tier = "tier4"
)

// ReferralPartner represents a referral partner profile
type ReferralPartner struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"not null;uniqueIndex"`
	ReferralCode   string         `json:"referral_code" gorm:"not null;uniqueIndex"`
	TotalReferrals int            `json:"total_referrals" gorm:"not null;default:0"`
	CommissionRate float64        `json:"commission_rate" gorm:"not null;default:1"` // percent
	Tier           Tier           `json:"tier" gorm:"not null;default:'tier1'"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (ReferralPartner) TableName() string {
	return "referral_partners"
}

// ResolveCommission maps a cumulative referral count to its tier and
// commission rate (percent). Tier and rate always move together.
func ResolveCommission(totalReferrals int) (Tier, float64) {
	switch {
	case totalReferrals >= 41:
		return Tier4, 10
	case totalReferrals >= 21:
		return Tier3, 5
	case totalReferrals >= 11:
		return Tier2, 2.5
	default:
		return Tier1, 1
	}
}

// Recalculate recomputes tier and commission rate from TotalReferrals.
func (p *ReferralPartner) Recalculate() {
	p.Tier, p.CommissionRate = ResolveCommission(p.TotalReferrals)
}

// PartnerRepository defines the contract for referral partner data access
type PartnerRepository interface {
	Create(partner *ReferralPartner) error
	FindByID(id uint) (*ReferralPartner, error)
	FindByUserID(userID uint) (*ReferralPartner, error)
	FindByCode(code string) (*ReferralPartner, error)
	// RecordReferral increments TotalReferrals and recomputes tier and
	// rate together, atomically. Returns the updated partner.
	RecordReferral(id uint) (*ReferralPartner, error)
}

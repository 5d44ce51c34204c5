package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/learnpay/settlement-engine/internal/referral/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// GormPartnerRepository implements PartnerRepository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GORM referral partner repository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

func (r *GormPartnerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.ReferralPartner{})
}

func (r *GormPartnerRepository) Create(partner *domain.ReferralPartner) error {
	partner.Recalculate()
	if err := r.db.Create(partner).Error; err != nil {
		return apperrors.E(apperrors.Internal, "failed to create referral partner", err)
	}
	return nil
}

func (r *GormPartnerRepository) FindByID(id uint) (*domain.ReferralPartner, error) {
	var partner domain.ReferralPartner
	if err := r.db.First(&partner, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.E(apperrors.NotFound, "referral partner not found")
		}
		return nil, apperrors.E(apperrors.Internal, "failed to find referral partner", err)
	}
	return &partner, nil
}

func (r *GormPartnerRepository) FindByUserID(userID uint) (*domain.ReferralPartner, error) {
	var partner domain.ReferralPartner
	if err := r.db.Where("user_id = ?", userID).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.E(apperrors.NotFound, "referral partner not found")
		}
		return nil, apperrors.E(apperrors.Internal, "failed to find referral partner", err)
	}
	return &partner, nil
}

func (r *GormPartnerRepository) FindByCode(code string) (*domain.ReferralPartner, error) {
	var partner domain.ReferralPartner
	if err := r.db.Where("referral_code = ?", code).First(&partner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.E(apperrors.NotFound, "referral partner not found")
		}
		return nil, apperrors.E(apperrors.Internal, "failed to find referral partner", err)
	}
	return &partner, nil
}

// RecordReferral counts a converted referral. The increment happens in the
// database so concurrent conversions cannot lose updates; tier and rate are
// recomputed from the incremented count inside the same transaction.
func (r *GormPartnerRepository) RecordReferral(id uint) (*domain.ReferralPartner, error) {
	var partner domain.ReferralPartner

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.ReferralPartner{}).
			Where("id = ?", id).
			UpdateColumn("total_referrals", gorm.Expr("total_referrals + 1"))
		if res.Error != nil {
			return apperrors.E(apperrors.Internal, "failed to increment referrals", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.E(apperrors.NotFound, "referral partner not found")
		}

		if err := tx.First(&partner, id).Error; err != nil {
			return apperrors.E(apperrors.Internal, "failed to reload referral partner", err)
		}

		partner.Recalculate()
		return tx.Model(&partner).
			Updates(map[string]interface{}{
				"tier":            partner.Tier,
				"commission_rate": partner.CommissionRate,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return &partner, nil
}

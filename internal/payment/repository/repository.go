package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GORM payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Payment{})
}

func (r *GormPaymentRepository) Create(payment *domain.Payment) error {
	if err := r.db.Create(payment).Error; err != nil {
		return apperrors.E(apperrors.Internal, "failed to create payment", err)
	}
	return nil
}

func (r *GormPaymentRepository) FindByOrderID(orderID string) (*domain.Payment, error) {
	var payment domain.Payment
	if err := r.db.Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.E(apperrors.NotFound, "payment not found")
		}
		return nil, apperrors.E(apperrors.Internal, "failed to find payment", err)
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByPayer(payerID uint, limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.Where("payer_id = ?", payerID).
		Limit(normalizeLimit(limit)).Offset(offset).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, apperrors.E(apperrors.Internal, "failed to list payments", err)
	}
	return payments, nil
}

func (r *GormPaymentRepository) FindAll(limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.Limit(normalizeLimit(limit)).Offset(offset).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, apperrors.E(apperrors.Internal, "failed to list payments", err)
	}
	return payments, nil
}

// MarkCaptured performs the pending -> captured transition together with
// the split, as one conditional UPDATE. The status and settlement_computed
// predicates make the settlement computation happen exactly once: a
// duplicate delivery affects zero rows and the caller short-circuits.
func (r *GormPaymentRepository) MarkCaptured(orderID string, update domain.CaptureUpdate) (bool, error) {
	res := r.db.Model(&domain.Payment{}).
		Where("order_id = ? AND status = ? AND settlement_computed = ?",
			orderID, domain.StatusPending, false).
		Updates(map[string]interface{}{
			"status":              domain.StatusCaptured,
			"gateway_payment_id":  update.GatewayPaymentID,
			"signature":           update.Signature,
			"captured_at":         update.CapturedAt,
			"settlement_computed": true,
			"platform_amount":     update.Split.Platform,
			"teacher_amount":      update.Split.Teacher,
			"university_amount":   update.Split.University,
			"referral_amount":     update.Split.Referral,
		})
	if res.Error != nil {
		return false, apperrors.E(apperrors.Internal, "failed to mark payment captured", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormPaymentRepository) MarkFailed(orderID, reason string) (bool, error) {
	res := r.db.Model(&domain.Payment{}).
		Where("order_id = ? AND status = ?", orderID, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":        domain.StatusFailed,
			"failed_at":     time.Now(),
			"failed_reason": reason,
		})
	if res.Error != nil {
		return false, apperrors.E(apperrors.Internal, "failed to mark payment failed", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormPaymentRepository) MarkCancelled(orderID string) (bool, error) {
	res := r.db.Model(&domain.Payment{}).
		Where("order_id = ? AND status = ?", orderID, domain.StatusPending).
		Update("status", domain.StatusCancelled)
	if res.Error != nil {
		return false, apperrors.E(apperrors.Internal, "failed to cancel payment", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormPaymentRepository) MarkRefunded(orderID string, update domain.RefundUpdate) (bool, error) {
	res := r.db.Model(&domain.Payment{}).
		Where("order_id = ? AND status = ?", orderID, domain.StatusCaptured).
		Updates(map[string]interface{}{
			"status":        domain.StatusRefunded,
			"refund_id":     update.RefundID,
			"refund_amount": update.Amount,
			"refund_reason": update.Reason,
			"refunded_at":   update.RefundedAt,
			"refunded_by":   update.RefundedBy,
		})
	if res.Error != nil {
		return false, apperrors.E(apperrors.Internal, "failed to mark payment refunded", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormPaymentRepository) MarkPartySettled(orderID, party string) error {
	var column string
	switch party {
	case domain.PartyTeacher:
		column = "teacher_settled"
	case domain.PartyUniversity:
		column = "university_settled"
	case domain.PartyReferral:
		column = "referral_settled"
	default:
		return apperrors.E(apperrors.Validation, "unknown settlement party: "+party)
	}

	err := r.db.Model(&domain.Payment{}).
		Where("order_id = ?", orderID).
		Update(column, true).Error
	if err != nil {
		return apperrors.E(apperrors.Internal, "failed to mark party settled", err)
	}
	return nil
}

func (r *GormPaymentRepository) CountReferredCapturesByPayer(payerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Payment{}).
		Where("payer_id = ? AND partner_id IS NOT NULL AND status IN ?", payerID,
			[]string{domain.StatusCaptured, domain.StatusRefunded}).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.E(apperrors.Internal, "failed to count captured payments", err)
	}
	return count, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

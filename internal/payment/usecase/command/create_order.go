package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/learnpay/settlement-engine/internal/gateway"
	"github.com/learnpay/settlement-engine/internal/payment/domain"
	referralcmd "github.com/learnpay/settlement-engine/internal/referral/usecase/command"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// minorUnitFactor converts major currency units to what the gateway
// expects (rupees to paise).
const minorUnitFactor = 100

// CreateOrderCommand represents the command to create a payment order
type CreateOrderCommand struct {
	PayerID        uint
	CourseID       uint
	TeacherID      uint
	UniversityID   uint
	Amount         int64
	Currency       string
	PaymentMethod  string
	CouponCode     string
	CouponDiscount int64
	ReferralCode   string
}

// CreateOrderHandler handles create order command
type CreateOrderHandler struct {
	repo     domain.PaymentRepository
	gateway  gateway.Gateway
	referral *referralcmd.ApplyReferralHandler
}

// NewCreateOrderHandler creates a new create order handler
func NewCreateOrderHandler(repo domain.PaymentRepository, gw gateway.Gateway, referral *referralcmd.ApplyReferralHandler) *CreateOrderHandler {
	return &CreateOrderHandler{repo: repo, gateway: gw, referral: referral}
}

// Handle executes the create order command. Referral terms are resolved
// and stamped now, before capture, at the partner's current rate.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Payment, error) {
	if cmd.Amount <= 0 {
		return nil, apperrors.E(apperrors.Validation, "amount must be greater than 0")
	}
	if cmd.PayerID == 0 {
		return nil, apperrors.E(apperrors.Validation, "payer_id is required")
	}
	if cmd.CourseID == 0 {
		return nil, apperrors.E(apperrors.Validation, "course_id is required")
	}
	if cmd.TeacherID == 0 || cmd.UniversityID == 0 {
		return nil, apperrors.E(apperrors.Validation, "teacher_id and university_id are required")
	}
	if cmd.Currency == "" {
		cmd.Currency = "INR"
	}

	payment := &domain.Payment{
		PayerID:        cmd.PayerID,
		CourseID:       cmd.CourseID,
		TeacherID:      cmd.TeacherID,
		UniversityID:   cmd.UniversityID,
		Amount:         cmd.Amount,
		Currency:       cmd.Currency,
		Status:         domain.StatusPending,
		PaymentMethod:  cmd.PaymentMethod,
		CouponCode:     cmd.CouponCode,
		CouponDiscount: cmd.CouponDiscount,
	}

	if cmd.ReferralCode != "" {
		terms, err := h.referral.Handle(referralcmd.ApplyReferralCommand{ReferralCode: cmd.ReferralCode})
		if err != nil {
			return nil, err
		}
		payment.PartnerID = &terms.PartnerID
		payment.ReferralRate = terms.CommissionRate
		payment.ReferralCommission = domain.PercentShare(cmd.Amount, terms.CommissionRate)
	}

	receipt := fmt.Sprintf("rcpt_%d_%d_%s", cmd.PayerID, cmd.CourseID, uuid.New().String()[:8])
	orderID, err := h.gateway.CreateOrder(ctx, cmd.Amount*minorUnitFactor, payment.Currency, receipt)
	if err != nil {
		return nil, apperrors.E(apperrors.Internal, "failed to create gateway order", err)
	}
	payment.OrderID = orderID

	if err := h.repo.Create(payment); err != nil {
		return nil, err
	}

	return payment, nil
}

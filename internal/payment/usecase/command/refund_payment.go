package command

import (
	"context"
	"time"

	"github.com/learnpay/settlement-engine/internal/gateway"
	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/logger"
	"github.com/learnpay/settlement-engine/pkg/metrics"
)

// RefundPaymentCommand issues a gateway refund for a captured payment.
// Amount zero means a full refund.
type RefundPaymentCommand struct {
	OrderID     string
	Amount      int64
	Reason      string
	RequestedBy uint
}

// RefundPaymentHandler handles refund payment command
type RefundPaymentHandler struct {
	repo    domain.PaymentRepository
	gateway gateway.Gateway
}

// NewRefundPaymentHandler creates a new refund payment handler
func NewRefundPaymentHandler(repo domain.PaymentRepository, gw gateway.Gateway) *RefundPaymentHandler {
	return &RefundPaymentHandler{repo: repo, gateway: gw}
}

// Handle executes the refund payment command. Only captured payments can
// refund, and only once. Wallet balances already credited from the split
// are not clawed back here; recovery from payees is an offline process.
func (h *RefundPaymentHandler) Handle(ctx context.Context, cmd RefundPaymentCommand) (*domain.Payment, error) {
	if cmd.OrderID == "" {
		return nil, apperrors.E(apperrors.Validation, "order_id is required")
	}
	if cmd.Amount < 0 {
		return nil, apperrors.E(apperrors.Validation, "refund amount cannot be negative")
	}

	payment, err := h.repo.FindByOrderID(cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.StatusCaptured {
		return nil, apperrors.E(apperrors.InvalidState,
			"only captured payments can be refunded, current status "+payment.Status)
	}

	amount := cmd.Amount
	if amount == 0 {
		amount = payment.Amount
	}
	if amount > payment.Amount {
		return nil, apperrors.E(apperrors.Validation, "refund amount exceeds payment amount")
	}

	refundID, err := h.gateway.Refund(ctx, payment.GatewayPaymentID, amount*minorUnitFactor, cmd.Reason)
	if err != nil {
		logger.Error(ctx).Err(err).
			Str("order_id", cmd.OrderID).
			Int64("amount", amount).
			Msg("Gateway refund failed")
		return nil, apperrors.E(apperrors.Internal, "gateway refund failed", err)
	}

	transitioned, err := h.repo.MarkRefunded(cmd.OrderID, domain.RefundUpdate{
		RefundID:   refundID,
		Amount:     amount,
		Reason:     cmd.Reason,
		RefundedAt: time.Now(),
		RefundedBy: cmd.RequestedBy,
	})
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, apperrors.E(apperrors.InvalidState, "payment was refunded concurrently")
	}

	metrics.PaymentsRefundedTotal.Inc()
	logger.Info(ctx).
		Str("order_id", cmd.OrderID).
		Str("refund_id", refundID).
		Int64("amount", amount).
		Msg("Payment refunded")

	return h.repo.FindByOrderID(cmd.OrderID)
}

package command

import (
	"context"

	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/logger"
)

// CancelPaymentCommand abandons a pending payment
type CancelPaymentCommand struct {
	OrderID string
	PayerID uint
}

// CancelPaymentHandler handles cancel payment command
type CancelPaymentHandler struct {
	repo domain.PaymentRepository
}

// NewCancelPaymentHandler creates a new cancel payment handler
func NewCancelPaymentHandler(repo domain.PaymentRepository) *CancelPaymentHandler {
	return &CancelPaymentHandler{repo: repo}
}

// Handle executes the cancel payment command. Only the payer can abandon
// their own pending order.
func (h *CancelPaymentHandler) Handle(ctx context.Context, cmd CancelPaymentCommand) (*domain.Payment, error) {
	if cmd.OrderID == "" {
		return nil, apperrors.E(apperrors.Validation, "order_id is required")
	}

	payment, err := h.repo.FindByOrderID(cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if payment.PayerID != cmd.PayerID {
		return nil, apperrors.E(apperrors.Forbidden, "payment belongs to another user")
	}
	if payment.Status == domain.StatusCancelled {
		return payment, nil
	}
	if payment.Status != domain.StatusPending {
		return nil, apperrors.E(apperrors.InvalidState,
			"payment cannot be cancelled from status "+payment.Status)
	}

	transitioned, err := h.repo.MarkCancelled(cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		fresh, err := h.repo.FindByOrderID(cmd.OrderID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == domain.StatusCancelled {
			return fresh, nil
		}
		return nil, apperrors.E(apperrors.InvalidState,
			"payment cannot be cancelled from status "+fresh.Status)
	}

	logger.Info(ctx).Str("order_id", cmd.OrderID).Msg("Payment cancelled")

	return h.repo.FindByOrderID(cmd.OrderID)
}

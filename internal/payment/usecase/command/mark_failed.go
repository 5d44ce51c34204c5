package command

import (
	"context"

	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/logger"
	"github.com/learnpay/settlement-engine/pkg/metrics"
)

// MarkFailedCommand records a gateway-reported payment failure
type MarkFailedCommand struct {
	OrderID string
	Reason  string
}

// MarkFailedHandler handles mark failed command
type MarkFailedHandler struct {
	repo domain.PaymentRepository
}

// NewMarkFailedHandler creates a new mark failed handler
func NewMarkFailedHandler(repo domain.PaymentRepository) *MarkFailedHandler {
	return &MarkFailedHandler{repo: repo}
}

// Handle executes the mark failed command. Reporting failure twice is a
// no-op success; a payment that already captured cannot fail afterwards.
func (h *MarkFailedHandler) Handle(ctx context.Context, cmd MarkFailedCommand) (*domain.Payment, error) {
	if cmd.OrderID == "" {
		return nil, apperrors.E(apperrors.Validation, "order_id is required")
	}

	payment, err := h.repo.FindByOrderID(cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.StatusFailed {
		return payment, nil
	}
	if payment.Status != domain.StatusPending {
		return nil, apperrors.E(apperrors.InvalidState,
			"payment cannot fail from status "+payment.Status)
	}

	transitioned, err := h.repo.MarkFailed(cmd.OrderID, cmd.Reason)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		fresh, err := h.repo.FindByOrderID(cmd.OrderID)
		if err != nil {
			return nil, err
		}
		if fresh.Status == domain.StatusFailed {
			return fresh, nil
		}
		return nil, apperrors.E(apperrors.InvalidState,
			"payment cannot fail from status "+fresh.Status)
	}

	metrics.PaymentsFailedTotal.Inc()
	logger.Info(ctx).
		Str("order_id", cmd.OrderID).
		Str("reason", cmd.Reason).
		Msg("Payment marked failed")

	return h.repo.FindByOrderID(cmd.OrderID)
}

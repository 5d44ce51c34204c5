package query

import (
	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// GetMyPaymentsQuery lists the requesting payer's own payments
type GetMyPaymentsQuery struct {
	PayerID uint
	Limit   int
	Offset  int
}

// GetMyPaymentsHandler handles get my payments query
type GetMyPaymentsHandler struct {
	repo domain.PaymentRepository
}

// NewGetMyPaymentsHandler creates a new get my payments handler
func NewGetMyPaymentsHandler(repo domain.PaymentRepository) *GetMyPaymentsHandler {
	return &GetMyPaymentsHandler{repo: repo}
}

// Handle executes the get my payments query
func (h *GetMyPaymentsHandler) Handle(q GetMyPaymentsQuery) ([]domain.Payment, error) {
	if q.PayerID == 0 {
		return nil, apperrors.E(apperrors.Unauthorized, "missing authenticated user")
	}
	return h.repo.FindByPayer(q.PayerID, q.Limit, q.Offset)
}

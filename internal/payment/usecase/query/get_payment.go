package query

import (
	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// GetPaymentQuery represents a query to get a payment by order id
type GetPaymentQuery struct {
	OrderID string
	// RequesterID and RequesterRole scope visibility: admins see every
	// payment, everyone else only their own.
	RequesterID   uint
	RequesterRole string
}

// GetPaymentHandler handles get payment query
type GetPaymentHandler struct {
	repo domain.PaymentRepository
}

// NewGetPaymentHandler creates a new get payment handler
func NewGetPaymentHandler(repo domain.PaymentRepository) *GetPaymentHandler {
	return &GetPaymentHandler{repo: repo}
}

// Handle executes the get payment query
func (h *GetPaymentHandler) Handle(q GetPaymentQuery) (*domain.Payment, error) {
	if q.OrderID == "" {
		return nil, apperrors.E(apperrors.Validation, "order_id is required")
	}
	payment, err := h.repo.FindByOrderID(q.OrderID)
	if err != nil {
		return nil, err
	}
	if q.RequesterRole != "admin" && payment.PayerID != q.RequesterID {
		return nil, apperrors.E(apperrors.Forbidden, "payment belongs to another user")
	}
	return payment, nil
}

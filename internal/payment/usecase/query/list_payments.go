package query

import (
	"github.com/learnpay/settlement-engine/internal/payment/domain"
)

// ListPaymentsQuery represents an admin query to list all payments
type ListPaymentsQuery struct {
	Limit  int
	Offset int
}

// ListPaymentsHandler handles list payments query
type ListPaymentsHandler struct {
	repo domain.PaymentRepository
}

// NewListPaymentsHandler creates a new list payments handler
func NewListPaymentsHandler(repo domain.PaymentRepository) *ListPaymentsHandler {
	return &ListPaymentsHandler{repo: repo}
}

// Handle executes the list payments query
func (h *ListPaymentsHandler) Handle(q ListPaymentsQuery) ([]domain.Payment, error) {
	return h.repo.FindAll(q.Limit, q.Offset)
}

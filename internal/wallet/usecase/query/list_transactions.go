package query

import (
	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// ListTransactionsQuery represents the query to list a wallet's ledger
type ListTransactionsQuery struct {
	OwnerID uint
	Limit   int
	Offset  int
}

// ListTransactionsHandler handles list transactions query
type ListTransactionsHandler struct {
	repo domain.WalletRepository
}

// NewListTransactionsHandler creates a new list transactions handler
func NewListTransactionsHandler(repo domain.WalletRepository) *ListTransactionsHandler {
	return &ListTransactionsHandler{repo: repo}
}

// Handle executes the list transactions query
func (h *ListTransactionsHandler) Handle(q ListTransactionsQuery) ([]domain.WalletTransaction, error) {
	if q.OwnerID == 0 {
		return nil, apperrors.E(apperrors.Validation, "owner_id is required")
	}
	wallet, err := h.repo.FindByOwner(q.OwnerID)
	if err != nil {
		return nil, err
	}
	return h.repo.ListTransactions(wallet.ID, q.Limit, q.Offset)
}

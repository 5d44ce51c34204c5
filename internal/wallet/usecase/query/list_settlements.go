package query

import (
	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// ListSettlementsQuery lists one wallet's settlement requests.
type ListSettlementsQuery struct {
	OwnerID uint
	Limit   int
	Offset  int
}

// ListSettlementsHandler handles list settlements query
type ListSettlementsHandler struct {
	repo domain.WalletRepository
}

// NewListSettlementsHandler creates a new list settlements handler
func NewListSettlementsHandler(repo domain.WalletRepository) *ListSettlementsHandler {
	return &ListSettlementsHandler{repo: repo}
}

// Handle executes the list settlements query
func (h *ListSettlementsHandler) Handle(q ListSettlementsQuery) ([]domain.SettlementRequest, error) {
	if q.OwnerID == 0 {
		return nil, apperrors.E(apperrors.Validation, "owner_id is required")
	}
	wallet, err := h.repo.FindByOwner(q.OwnerID)
	if err != nil {
		return nil, err
	}
	return h.repo.ListSettlementRequests(wallet.ID, q.Limit, q.Offset)
}

// ListPendingSettlementsQuery lists pending requests across all wallets
// for the admin processing queue.
type ListPendingSettlementsQuery struct {
	Limit  int
	Offset int
}

// ListPendingSettlementsHandler handles list pending settlements query
type ListPendingSettlementsHandler struct {
	repo domain.WalletRepository
}

// NewListPendingSettlementsHandler creates a new list pending settlements handler
func NewListPendingSettlementsHandler(repo domain.WalletRepository) *ListPendingSettlementsHandler {
	return &ListPendingSettlementsHandler{repo: repo}
}

// Handle executes the list pending settlements query
func (h *ListPendingSettlementsHandler) Handle(q ListPendingSettlementsQuery) ([]domain.SettlementRequest, error) {
	return h.repo.ListPendingSettlementRequests(q.Limit, q.Offset)
}

package query

import (
	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// GetWalletQuery represents the query to get a wallet by its owner
type GetWalletQuery struct {
	OwnerID   uint
	OwnerRole string
}

// GetWalletHandler handles get wallet query
type GetWalletHandler struct {
	repo domain.WalletRepository
}

// NewGetWalletHandler creates a new get wallet handler
func NewGetWalletHandler(repo domain.WalletRepository) *GetWalletHandler {
	return &GetWalletHandler{repo: repo}
}

// Handle executes the get wallet query. Wallets are created lazily on
// first access.
func (h *GetWalletHandler) Handle(q GetWalletQuery) (*domain.Wallet, error) {
	if q.OwnerID == 0 {
		return nil, apperrors.E(apperrors.Validation, "owner_id is required")
	}
	return h.repo.FindOrCreateByOwner(q.OwnerID, q.OwnerRole, "")
}

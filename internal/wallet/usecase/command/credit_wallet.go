package command

import (
	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/metrics"
)

// CreditWalletCommand credits a share of a captured payment to the wallet
// of the given owner, creating the wallet on first use.
type CreditWalletCommand struct {
	OwnerID     uint
	OwnerRole   string
	Amount      int64
	Currency    string
	Type        string // credit or commission
	Description string
	Reference   string // gateway order id
	Metadata    domain.TxnMetadata
}

// CreditWalletHandler handles credit wallet command
type CreditWalletHandler struct {
	repo domain.WalletRepository
}

// NewCreditWalletHandler creates a new credit wallet handler
func NewCreditWalletHandler(repo domain.WalletRepository) *CreditWalletHandler {
	return &CreditWalletHandler{repo: repo}
}

// Handle executes the credit wallet command
func (h *CreditWalletHandler) Handle(cmd CreditWalletCommand) (*domain.Wallet, error) {
	if cmd.OwnerID == 0 {
		return nil, apperrors.E(apperrors.Validation, "owner_id is required")
	}
	if cmd.Amount <= 0 {
		return nil, apperrors.E(apperrors.Validation, "amount must be greater than 0")
	}
	if cmd.Type == "" {
		cmd.Type = domain.TxnCredit
	}

	wallet, err := h.repo.FindOrCreateByOwner(cmd.OwnerID, cmd.OwnerRole, cmd.Currency)
	if err != nil {
		return nil, err
	}

	txn := &domain.WalletTransaction{
		Type:        cmd.Type,
		Description: cmd.Description,
		Reference:   cmd.Reference,
		Metadata:    cmd.Metadata,
	}
	if err := h.repo.Credit(wallet.ID, cmd.Amount, txn); err != nil {
		return nil, err
	}

	metrics.WalletTransactionsTotal.WithLabelValues(cmd.Type).Inc()

	wallet.Balance += cmd.Amount
	return wallet, nil
}

package command

import (
	"fmt"

	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/metrics"
)

// RequestSettlementCommand represents a wallet holder's withdrawal request.
type RequestSettlementCommand struct {
	OwnerID     uint
	Amount      int64
	BankDetails string
	UpiID       string
	Notes       string
}

// RequestSettlementHandler handles request settlement command
type RequestSettlementHandler struct {
	repo domain.WalletRepository
}

// NewRequestSettlementHandler creates a new request settlement handler
func NewRequestSettlementHandler(repo domain.WalletRepository) *RequestSettlementHandler {
	return &RequestSettlementHandler{repo: repo}
}

// Handle executes the request settlement command. The amount leaves the
// spendable balance at request time; rejection is the only way back.
func (h *RequestSettlementHandler) Handle(cmd RequestSettlementCommand) (*domain.SettlementRequest, error) {
	if cmd.OwnerID == 0 {
		return nil, apperrors.E(apperrors.Validation, "owner_id is required")
	}
	if cmd.BankDetails == "" && cmd.UpiID == "" {
		return nil, apperrors.E(apperrors.Validation, "bank details or UPI id required")
	}

	wallet, err := h.repo.FindByOwner(cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	if min := domain.MinSettlementAmount(wallet.OwnerRole); cmd.Amount < min {
		return nil, apperrors.E(apperrors.Validation,
			fmt.Sprintf("settlement amount must be at least %d", min))
	}

	req := &domain.SettlementRequest{
		Amount:      cmd.Amount,
		BankDetails: cmd.BankDetails,
		UpiID:       cmd.UpiID,
		Notes:       cmd.Notes,
	}
	txn := &domain.WalletTransaction{
		Type:        domain.TxnSettlement,
		Description: "Settlement request",
	}

	if err := h.repo.CreateSettlementRequest(wallet.ID, req, txn); err != nil {
		return nil, err
	}

	metrics.WalletTransactionsTotal.WithLabelValues(domain.TxnSettlement).Inc()

	return req, nil
}

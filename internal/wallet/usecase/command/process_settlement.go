package command

import (
	"fmt"
	"time"

	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/metrics"
)

// ProcessSettlementCommand is the admin-side decision on a withdrawal
// request: approve, reject, or mark an approved request processed.
type ProcessSettlementCommand struct {
	WalletID    uint
	RequestID   uint
	Status      string
	ProcessedBy uint
	AdminNotes  string
}

// ProcessSettlementHandler handles process settlement command
type ProcessSettlementHandler struct {
	repo domain.WalletRepository
}

// NewProcessSettlementHandler creates a new process settlement handler
func NewProcessSettlementHandler(repo domain.WalletRepository) *ProcessSettlementHandler {
	return &ProcessSettlementHandler{repo: repo}
}

// Handle executes the process settlement command. Rejection restores the
// escrowed amount to the balance exactly; approval leaves it deducted
// (paid out externally); processed is terminal and only reachable from
// approved.
func (h *ProcessSettlementHandler) Handle(cmd ProcessSettlementCommand) (*domain.SettlementRequest, error) {
	switch cmd.Status {
	case domain.SettlementApproved, domain.SettlementRejected, domain.SettlementProcessed:
	default:
		return nil, apperrors.E(apperrors.Validation,
			fmt.Sprintf("invalid settlement status: %s", cmd.Status))
	}

	req, err := h.repo.FindSettlementRequest(cmd.WalletID, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	if !req.CanTransitionTo(cmd.Status) {
		return nil, apperrors.E(apperrors.InvalidState,
			fmt.Sprintf("settlement request cannot move from %s to %s", req.Status, cmd.Status))
	}

	// The update is predicated on the status validated above, so a
	// concurrent decision on the same request makes this one fail
	// instead of overriding it.
	validatedStatus := req.Status

	now := time.Now()
	req.Status = cmd.Status
	req.AdminNotes = cmd.AdminNotes
	req.ProcessedAt = &now
	req.ProcessedBy = cmd.ProcessedBy

	var refund *domain.WalletTransaction
	if cmd.Status == domain.SettlementRejected {
		refund = &domain.WalletTransaction{
			Type:        domain.TxnRefund,
			Amount:      req.Amount,
			Description: "Settlement request rejected",
		}
	}

	if err := h.repo.UpdateSettlementRequest(req, validatedStatus, refund); err != nil {
		return nil, err
	}

	metrics.SettlementsProcessedTotal.WithLabelValues(cmd.Status).Inc()
	if refund != nil {
		metrics.WalletTransactionsTotal.WithLabelValues(domain.TxnRefund).Inc()
	}

	return req, nil
}

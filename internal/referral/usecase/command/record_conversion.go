package command

import (
	"github.com/learnpay/settlement-engine/internal/referral/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// RecordConversionCommand counts a referred user's first captured payment
// against the partner's referral total.
type RecordConversionCommand struct {
	PartnerID uint
}

// RecordConversionHandler handles record conversion command
type RecordConversionHandler struct {
	repo domain.PartnerRepository
}

// NewRecordConversionHandler creates a new record conversion handler
func NewRecordConversionHandler(repo domain.PartnerRepository) *RecordConversionHandler {
	return &RecordConversionHandler{repo: repo}
}

// Handle executes the record conversion command
func (h *RecordConversionHandler) Handle(cmd RecordConversionCommand) (*domain.ReferralPartner, error) {
	if cmd.PartnerID == 0 {
		return nil, apperrors.E(apperrors.Validation, "partner_id is required")
	}
	return h.repo.RecordReferral(cmd.PartnerID)
}

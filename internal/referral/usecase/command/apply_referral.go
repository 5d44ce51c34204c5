package command

import (
	"strings"

	"github.com/learnpay/settlement-engine/internal/referral/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// ApplyReferralCommand resolves a referral code into commission terms
// for a payment being created.
type ApplyReferralCommand struct {
	ReferralCode string
}

// ReferralTerms is what gets stamped onto the payment before capture.
type ReferralTerms struct {
	PartnerID      uint
	CommissionRate float64
	Tier           domain.Tier
}

// ApplyReferralHandler handles apply referral command
type ApplyReferralHandler struct {
	repo domain.PartnerRepository
}

// NewApplyReferralHandler creates a new apply referral handler
func NewApplyReferralHandler(repo domain.PartnerRepository) *ApplyReferralHandler {
	return &ApplyReferralHandler{repo: repo}
}

// Handle executes the apply referral command. The partner's rate at this
// moment is the rate of record: later tier changes never touch commissions
// already stamped.
func (h *ApplyReferralHandler) Handle(cmd ApplyReferralCommand) (*ReferralTerms, error) {
	code := strings.TrimSpace(cmd.ReferralCode)
	if code == "" {
		return nil, apperrors.E(apperrors.Validation, "referral code is required")
	}

	partner, err := h.repo.FindByCode(code)
	if err != nil {
		if apperrors.IsKind(err, apperrors.NotFound) {
			return nil, apperrors.E(apperrors.Validation, "unknown referral code")
		}
		return nil, err
	}

	if !partner.IsActive {
		return nil, apperrors.E(apperrors.Validation, "referral partner is inactive")
	}

	return &ReferralTerms{
		PartnerID:      partner.ID,
		CommissionRate: partner.CommissionRate,
		Tier:           partner.Tier,
	}, nil
}

package command

import (
	"strings"

	"github.com/google/uuid"

	"github.com/learnpay/settlement-engine/internal/referral/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// RegisterPartnerCommand enrolls a user as a referral partner
type RegisterPartnerCommand struct {
	UserID uint
	// ReferralCode is optional; a code is generated when empty.
	ReferralCode string
}

// RegisterPartnerHandler handles register partner command
type RegisterPartnerHandler struct {
	repo domain.PartnerRepository
}

// NewRegisterPartnerHandler creates a new register partner handler
func NewRegisterPartnerHandler(repo domain.PartnerRepository) *RegisterPartnerHandler {
	return &RegisterPartnerHandler{repo: repo}
}

// Handle executes the register partner command. Registration is
// idempotent: a user who is already a partner gets their existing profile.
func (h *RegisterPartnerHandler) Handle(cmd RegisterPartnerCommand) (*domain.ReferralPartner, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.E(apperrors.Validation, "user_id is required")
	}

	if existing, err := h.repo.FindByUserID(cmd.UserID); err == nil {
		return existing, nil
	} else if !apperrors.IsKind(err, apperrors.NotFound) {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(cmd.ReferralCode))
	if code == "" {
		code = "REF-" + strings.ToUpper(uuid.New().String()[:8])
	}
	if _, err := h.repo.FindByCode(code); err == nil {
		return nil, apperrors.E(apperrors.Validation, "referral code already taken")
	} else if !apperrors.IsKind(err, apperrors.NotFound) {
		return nil, err
	}

	partner := &domain.ReferralPartner{
		UserID:       cmd.UserID,
		ReferralCode: code,
		IsActive:     true,
	}
	partner.Recalculate()

	if err := h.repo.Create(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

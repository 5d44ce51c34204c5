package query

import (
	"github.com/learnpay/settlement-engine/internal/referral/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// GetPartnerQuery represents the query to get a partner profile
type GetPartnerQuery struct {
	UserID uint
}

// GetPartnerHandler handles get partner query
type GetPartnerHandler struct {
	repo domain.PartnerRepository
}

// NewGetPartnerHandler creates a new get partner handler
func NewGetPartnerHandler(repo domain.PartnerRepository) *GetPartnerHandler {
	return &GetPartnerHandler{repo: repo}
}

// Handle executes the get partner query
func (h *GetPartnerHandler) Handle(q GetPartnerQuery) (*domain.ReferralPartner, error) {
	if q.UserID == 0 {
		return nil, apperrors.E(apperrors.Validation, "user_id is required")
	}
	return h.repo.FindByUserID(q.UserID)
}

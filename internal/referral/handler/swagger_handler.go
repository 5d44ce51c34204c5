package handler

// RegisterPartner godoc
// @Summary Register as a referral partner
// @Description Enroll the authenticated user as a referral partner; generates a code when none is given
// @Tags Referrals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{referral_code=string} false "Optional custom code"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/referrals/partners [post]
func (h *ReferralHandler) RegisterPartnerDoc() {}

// GetMyPartner godoc
// @Summary Get my partner profile
// @Description Get the authenticated user's referral partner profile and tier stats
// @Tags Referrals
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/referrals/partners/me [get]
func (h *ReferralHandler) GetMyPartnerDoc() {}

// ValidateCode godoc
// @Summary Validate a referral code
// @Description Resolve a referral code into its current commission terms
// @Tags Referrals
// @Produce json
// @Param code path string true "Referral code"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/referrals/codes/{code} [get]
func (h *ReferralHandler) ValidateCodeDoc() {}

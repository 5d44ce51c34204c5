package handler

// GetMyWallet godoc
// @Summary Get my wallet
// @Description Get the authenticated user's wallet, creating it on first access
// @Tags Wallets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/wallets/me [get]
func (h *WalletHandler) GetMyWalletDoc() {}

// ListMyTransactions godoc
// @Summary List my wallet transactions
// @Description Get the authenticated user's wallet ledger with pagination
// @Tags Wallets
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=object{transactions=array,total=int}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/wallets/me/transactions [get]
func (h *WalletHandler) ListMyTransactionsDoc() {}

// ListMySettlements godoc
// @Summary List my settlement requests
// @Description Get the authenticated user's settlement requests with pagination
// @Tags Settlements
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=object{settlements=array,total=int}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/wallets/me/settlements [get]
func (h *WalletHandler) ListMySettlementsDoc() {}

// RequestSettlement godoc
// @Summary Request a settlement
// @Description Request a payout from the wallet balance; the amount is held in escrow until processed
// @Tags Settlements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{amount=int,bank_details=string,upi_id=string,notes=string} true "Settlement data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/wallets/me/settlements [post]
func (h *WalletHandler) RequestSettlementDoc() {}

// ListPendingSettlements godoc
// @Summary List pending settlements
// @Description Get all pending settlement requests across wallets (Admin only)
// @Tags Settlements
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=object{settlements=array,total=int}}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/settlements/pending [get]
func (h *WalletHandler) ListPendingSettlementsDoc() {}

// ProcessSettlement godoc
// @Summary Process a settlement request
// @Description Approve, reject, or mark processed a settlement request (Admin only)
// @Tags Settlements
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param walletID path int true "Wallet ID"
// @Param id path int true "Settlement request ID"
// @Param request body object{status=string,admin_notes=string} true "Decision (approved/rejected/processed)"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/wallets/{walletID}/settlements/{id} [patch]
func (h *WalletHandler) ProcessSettlementDoc() {}

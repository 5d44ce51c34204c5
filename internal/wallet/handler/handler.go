package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/learnpay/settlement-engine/internal/middleware"
	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/internal/wallet/usecase/command"
	"github.com/learnpay/settlement-engine/internal/wallet/usecase/query"
	"github.com/learnpay/settlement-engine/kafka"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/logger"
)

// WalletHandler handles HTTP requests for wallets using CQRS pattern
type WalletHandler struct {
	// Command handlers
	requestHandler *command.RequestSettlementHandler
	processHandler *command.ProcessSettlementHandler

	// Query handlers
	getHandler         *query.GetWalletHandler
	txnHandler         *query.ListTransactionsHandler
	settlementsHandler *query.ListSettlementsHandler
	pendingHandler     *query.ListPendingSettlementsHandler

	repo           domain.WalletRepository
	kafkaPublisher *kafka.Publisher
}

// NewWalletHandlerWithDI creates a new wallet handler using dependency injection
func NewWalletHandlerWithDI(
	requestHandler *command.RequestSettlementHandler,
	processHandler *command.ProcessSettlementHandler,
	getHandler *query.GetWalletHandler,
	txnHandler *query.ListTransactionsHandler,
	settlementsHandler *query.ListSettlementsHandler,
	pendingHandler *query.ListPendingSettlementsHandler,
	repo domain.WalletRepository,
	kafkaPublisher *kafka.Publisher,
) *WalletHandler {
	return &WalletHandler{
		requestHandler:     requestHandler,
		processHandler:     processHandler,
		getHandler:         getHandler,
		txnHandler:         txnHandler,
		settlementsHandler: settlementsHandler,
		pendingHandler:     pendingHandler,
		repo:               repo,
		kafkaPublisher:     kafkaPublisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// GetMyWallet handles GET /api/wallets/me
func (h *WalletHandler) GetMyWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "User ID not found in context",
		})
		return
	}
	role, _ := middleware.RoleFromContext(r.Context())

	wallet, err := h.getHandler.Handle(query.GetWalletQuery{
		OwnerID:   userID,
		OwnerRole: role,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get wallet")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    wallet,
	})
}

// ListMyTransactions handles GET /api/wallets/me/transactions
func (h *WalletHandler) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "User ID not found in context",
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	txns, err := h.txnHandler.Handle(query.ListTransactionsQuery{
		OwnerID: userID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list wallet transactions")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"transactions": txns,
			"total":        len(txns),
		},
	})
}

// ListMySettlements handles GET /api/wallets/me/settlements
func (h *WalletHandler) ListMySettlements(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "User ID not found in context",
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	settlements, err := h.settlementsHandler.Handle(query.ListSettlementsQuery{
		OwnerID: userID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list settlements")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"settlements": settlements,
			"total":       len(settlements),
		},
	})
}

// RequestSettlement handles POST /api/wallets/me/settlements
func (h *WalletHandler) RequestSettlement(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "User ID not found in context",
		})
		return
	}

	var req struct {
		Amount      int64  `json:"amount"`
		BankDetails string `json:"bank_details"`
		UpiID       string `json:"upi_id"`
		Notes       string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	settlement, err := h.requestHandler.Handle(command.RequestSettlementCommand{
		OwnerID:     userID,
		Amount:      req.Amount,
		BankDetails: req.BankDetails,
		UpiID:       req.UpiID,
		Notes:       req.Notes,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Uint("owner_id", userID).
			Int64("amount", req.Amount).
			Msg("Failed to create settlement request")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Settlement requested successfully",
		Data:    settlement,
	})
}

// ListPendingSettlements handles GET /api/settlements/pending
func (h *WalletHandler) ListPendingSettlements(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	settlements, err := h.pendingHandler.Handle(query.ListPendingSettlementsQuery{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list pending settlements")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"settlements": settlements,
			"total":       len(settlements),
		},
	})
}

// ProcessSettlement handles PATCH /api/wallets/{walletID}/settlements/{id}
func (h *WalletHandler) ProcessSettlement(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	walletID, err := strconv.ParseUint(vars["walletID"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid wallet ID",
		})
		return
	}
	requestID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid settlement ID",
		})
		return
	}

	var req struct {
		Status     string `json:"status"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	settlement, err := h.processHandler.Handle(command.ProcessSettlementCommand{
		WalletID:    uint(walletID),
		RequestID:   uint(requestID),
		Status:      req.Status,
		ProcessedBy: adminID,
		AdminNotes:  req.AdminNotes,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Uint64("wallet_id", walletID).
			Uint64("settlement_id", requestID).
			Str("status", req.Status).
			Msg("Failed to process settlement")
		respondError(w, err)
		return
	}

	if h.kafkaPublisher != nil {
		wallet, werr := h.repo.FindByID(settlement.WalletID)
		ownerID := uint(0)
		if werr == nil {
			ownerID = wallet.OwnerID
		}
		event := kafka.SettlementProcessedEvent{
			SettlementID: settlement.ID,
			WalletID:     settlement.WalletID,
			OwnerID:      ownerID,
			Amount:       settlement.Amount,
			Status:       settlement.Status,
		}
		if err := h.kafkaPublisher.PublishSettlementProcessed(r.Context(), event); err != nil {
			logger.Error(r.Context()).Err(err).
				Uint("settlement_id", settlement.ID).
				Msg("Failed to publish settlement processed event")
			// Don't fail the settlement, just log the error
		}
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Settlement processed successfully",
		Data:    settlement,
	})
}

// RegisterRoutes registers all wallet routes
func (h *WalletHandler) RegisterRoutes(router *mux.Router) {
	config := middleware.DefaultConfig()

	// Authenticated user routes (any logged-in user)
	router.HandleFunc("/api/wallets/me", config.GetAuthMiddleware()(h.GetMyWallet)).Methods("GET")
	router.HandleFunc("/api/wallets/me/transactions", config.GetAuthMiddleware()(h.ListMyTransactions)).Methods("GET")
	router.HandleFunc("/api/wallets/me/settlements", config.GetAuthMiddleware()(h.ListMySettlements)).Methods("GET")
	router.HandleFunc("/api/wallets/me/settlements", config.GetAuthMiddleware()(h.RequestSettlement)).Methods("POST")

	// Admin routes (require admin role)
	router.HandleFunc("/api/settlements/pending", config.GetAdminMiddleware()(h.ListPendingSettlements)).Methods("GET")
	router.HandleFunc("/api/wallets/{walletID}/settlements/{id}", config.GetAdminMiddleware()(h.ProcessSettlement)).Methods("PATCH")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps an error kind to its HTTP status
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.KindOf(err) {
	case apperrors.Validation:
		status = http.StatusBadRequest
	case apperrors.NotFound:
		status = http.StatusNotFound
	case apperrors.InvalidState:
		status = http.StatusConflict
	case apperrors.InsufficientBalance:
		status = http.StatusUnprocessableEntity
	case apperrors.Unauthorized:
		status = http.StatusUnauthorized
	case apperrors.Forbidden:
		status = http.StatusForbidden
	}
	respondJSON(w, status, Response{
		Success: false,
		Error:   apperrors.Message(err),
	})
}

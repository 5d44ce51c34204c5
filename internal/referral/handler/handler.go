package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/learnpay/settlement-engine/internal/middleware"
	"github.com/learnpay/settlement-engine/internal/referral/domain"
	"github.com/learnpay/settlement-engine/internal/referral/usecase/command"
	"github.com/learnpay/settlement-engine/internal/referral/usecase/query"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/logger"
)

// ReferralHandler handles HTTP requests for referral partners using CQRS pattern
type ReferralHandler struct {
	// Command handlers
	registerHandler *command.RegisterPartnerHandler
	applyHandler    *command.ApplyReferralHandler

	// Query handlers
	getHandler *query.GetPartnerHandler

	repo domain.PartnerRepository
}

// NewReferralHandlerWithDI creates a new referral handler using dependency injection
func NewReferralHandlerWithDI(
	registerHandler *command.RegisterPartnerHandler,
	applyHandler *command.ApplyReferralHandler,
	getHandler *query.GetPartnerHandler,
	repo domain.PartnerRepository,
) *ReferralHandler {
	return &ReferralHandler{
		registerHandler: registerHandler,
		applyHandler:    applyHandler,
		getHandler:      getHandler,
		repo:            repo,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterPartner handles POST /api/referrals/partners
func (h *ReferralHandler) RegisterPartner(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "User ID not found in context",
		})
		return
	}

	var req struct {
		ReferralCode string `json:"referral_code"`
	}
	if r.Body != nil {
		// Body is optional; a code is generated when absent.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	partner, err := h.registerHandler.Handle(command.RegisterPartnerCommand{
		UserID:       userID,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Uint("user_id", userID).
			Msg("Failed to register referral partner")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Referral partner registered",
		Data:    partner,
	})
}

// GetMyPartner handles GET /api/referrals/partners/me
func (h *ReferralHandler) GetMyPartner(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "User ID not found in context",
		})
		return
	}

	partner, err := h.getHandler.Handle(query.GetPartnerQuery{UserID: userID})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    partner,
	})
}

// ValidateCode handles GET /api/referrals/codes/{code}. Checkout pages
// call this before order creation to show the applicable commission.
func (h *ReferralHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	terms, err := h.applyHandler.Handle(command.ApplyReferralCommand{ReferralCode: vars["code"]})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    terms,
	})
}

// RegisterRoutes registers all referral routes
func (h *ReferralHandler) RegisterRoutes(router *mux.Router) {
	config := middleware.DefaultConfig()

	// Public route: checkout-time code validation
	router.HandleFunc("/api/referrals/codes/{code}", h.ValidateCode).Methods("GET")

	// Authenticated user routes (any logged-in user)
	router.HandleFunc("/api/referrals/partners", config.GetAuthMiddleware()(h.RegisterPartner)).Methods("POST")
	router.HandleFunc("/api/referrals/partners/me", config.GetAuthMiddleware()(h.GetMyPartner)).Methods("GET")
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

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/learnpay/settlement-engine/internal/middleware"
	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/internal/payment/usecase/command"
	"github.com/learnpay/settlement-engine/internal/payment/usecase/query"
	"github.com/learnpay/settlement-engine/kafka"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/logger"
)

// PaymentHandler handles HTTP requests for payments using CQRS pattern
type PaymentHandler struct {
	// Command handlers
	createOrderHandler *command.CreateOrderHandler
	captureHandler     *command.CapturePaymentHandler
	markFailedHandler  *command.MarkFailedHandler
	refundHandler      *command.RefundPaymentHandler
	cancelHandler      *command.CancelPaymentHandler

	// Query handlers
	getHandler   *query.GetPaymentHandler
	listHandler  *query.ListPaymentsHandler
	getMyHandler *query.GetMyPaymentsHandler

	repo           domain.PaymentRepository
	kafkaPublisher *kafka.Publisher
	dedupe         eventDeduper
}

// NewPaymentHandlerWithDI creates a new payment handler using dependency injection
func NewPaymentHandlerWithDI(
	createOrderHandler *command.CreateOrderHandler,
	captureHandler *command.CapturePaymentHandler,
	markFailedHandler *command.MarkFailedHandler,
	refundHandler *command.RefundPaymentHandler,
	cancelHandler *command.CancelPaymentHandler,
	getHandler *query.GetPaymentHandler,
	listHandler *query.ListPaymentsHandler,
	getMyHandler *query.GetMyPaymentsHandler,
	repo domain.PaymentRepository,
	kafkaPublisher *kafka.Publisher,
	redisClient *redis.Client,
) *PaymentHandler {
	var dedupe eventDeduper
	if redisClient != nil {
		dedupe = &redisDeduper{client: redisClient}
	}
	return &PaymentHandler{
		createOrderHandler: createOrderHandler,
		captureHandler:     captureHandler,
		markFailedHandler:  markFailedHandler,
		refundHandler:      refundHandler,
		cancelHandler:      cancelHandler,
		getHandler:         getHandler,
		listHandler:        listHandler,
		getMyHandler:       getMyHandler,
		repo:               repo,
		kafkaPublisher:     kafkaPublisher,
		dedupe:             dedupe,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateOrder handles POST /api/payments/orders
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "User ID not found in context",
		})
		return
	}

	var req struct {
		CourseID       uint   `json:"course_id"`
		TeacherID      uint   `json:"teacher_id"`
		UniversityID   uint   `json:"university_id"`
		Amount         int64  `json:"amount"`
		Currency       string `json:"currency"`
		CouponCode     string `json:"coupon_code"`
		CouponDiscount int64  `json:"coupon_discount"`
		ReferralCode   string `json:"referral_code"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.CreateOrderCommand{
		PayerID:        payerID,
		CourseID:       req.CourseID,
		TeacherID:      req.TeacherID,
		UniversityID:   req.UniversityID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		CouponCode:     req.CouponCode,
		CouponDiscount: req.CouponDiscount,
		ReferralCode:   req.ReferralCode,
	}

	payment, err := h.createOrderHandler.Handle(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create payment order")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Order created successfully",
		Data:    payment,
	})
}

// CapturePayment handles POST /api/payments/capture
func (h *PaymentHandler) CapturePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID          string `json:"razorpay_order_id"`
		GatewayPaymentID string `json:"razorpay_payment_id"`
		Signature        string `json:"razorpay_signature"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	payment, err := h.captureHandler.Handle(r.Context(), command.CapturePaymentCommand{
		OrderID:          req.OrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		Signature:        req.Signature,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Str("order_id", req.OrderID).
			Msg("Failed to capture payment")
		respondError(w, err)
		return
	}

	h.publishCaptured(r, payment)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Payment captured successfully",
		Data:    payment,
	})
}

// MarkFailed handles POST /api/payments/{orderID}/fail
func (h *PaymentHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	payment, err := h.markFailedHandler.Handle(r.Context(), command.MarkFailedCommand{
		OrderID: vars["orderID"],
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	h.publishFailed(r, payment)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Payment marked failed",
		Data:    payment,
	})
}

// CancelPayment handles POST /api/payments/{orderID}/cancel
func (h *PaymentHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "User ID not found in context",
		})
		return
	}

	vars := mux.Vars(r)
	payment, err := h.cancelHandler.Handle(r.Context(), command.CancelPaymentCommand{
		OrderID: vars["orderID"],
		PayerID: payerID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Payment cancelled",
		Data:    payment,
	})
}

// RefundPayment handles POST /api/payments/{orderID}/refund
func (h *PaymentHandler) RefundPayment(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	var req struct {
		Amount int64  `json:"amount"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	payment, err := h.refundHandler.Handle(r.Context(), command.RefundPaymentCommand{
		OrderID:     vars["orderID"],
		Amount:      req.Amount,
		Reason:      req.Reason,
		RequestedBy: adminID,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).
			Str("order_id", vars["orderID"]).
			Msg("Failed to refund payment")
		respondError(w, err)
		return
	}

	if h.kafkaPublisher != nil {
		event := kafka.PaymentRefundedEvent{
			OrderID:  payment.OrderID,
			RefundID: payment.RefundID,
			PayerID:  payment.PayerID,
			Amount:   payment.RefundAmount,
			Currency: payment.Currency,
			Reason:   payment.RefundReason,
		}
		if err := h.kafkaPublisher.PublishPaymentRefunded(r.Context(), event); err != nil {
			logger.Error(r.Context()).Err(err).
				Str("order_id", payment.OrderID).
				Msg("Failed to publish payment refunded event")
			// Don't fail the refund, just log the error
		}
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Payment refunded successfully",
		Data:    payment,
	})
}

// GetPayment handles GET /api/payments/{orderID}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	role, _ := middleware.RoleFromContext(r.Context())
	vars := mux.Vars(r)

	payment, err := h.getHandler.Handle(query.GetPaymentQuery{
		OrderID:       vars["orderID"],
		RequesterID:   userID,
		RequesterRole: role,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    payment,
	})
}

// ListPayments handles GET /api/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.listHandler.Handle(query.ListPaymentsQuery{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list payments")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"payments": payments,
			"total":    len(payments),
		},
	})
}

// GetMyPayments handles GET /api/payments/my (authenticated user)
func (h *PaymentHandler) GetMyPayments(w http.ResponseWriter, r *http.Request) {
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

	payments, err := h.getMyHandler.Handle(query.GetMyPaymentsQuery{
		PayerID: userID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to get user payments")
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"payments": payments,
			"total":    len(payments),
		},
	})
}

func (h *PaymentHandler) publishCaptured(r *http.Request, payment *domain.Payment) {
	if h.kafkaPublisher == nil {
		return
	}
	event := kafka.PaymentCapturedEvent{
		OrderID:          payment.OrderID,
		GatewayPaymentID: payment.GatewayPaymentID,
		PayerID:          payment.PayerID,
		CourseID:         payment.CourseID,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
		PlatformAmount:   payment.PlatformAmount,
		TeacherAmount:    payment.TeacherAmount,
		UniversityAmount: payment.UniversityAmount,
		ReferralAmount:   payment.ReferralAmount,
	}
	if err := h.kafkaPublisher.PublishPaymentCaptured(r.Context(), event); err != nil {
		logger.Error(r.Context()).Err(err).
			Str("order_id", payment.OrderID).
			Msg("Failed to publish payment captured event")
		// Don't fail the capture, just log the error
	}
}

func (h *PaymentHandler) publishFailed(r *http.Request, payment *domain.Payment) {
	if h.kafkaPublisher == nil {
		return
	}
	event := kafka.PaymentFailedEvent{
		OrderID:  payment.OrderID,
		PayerID:  payment.PayerID,
		Amount:   payment.Amount,
		Currency: payment.Currency,
		Reason:   payment.FailedReason,
	}
	if err := h.kafkaPublisher.PublishPaymentFailed(r.Context(), event); err != nil {
		logger.Error(r.Context()).Err(err).
			Str("order_id", payment.OrderID).
			Msg("Failed to publish payment failed event")
	}
}

// GetMiddlewareConfig returns middleware configuration
func (h *PaymentHandler) GetMiddlewareConfig() middleware.Config {
	return middleware.DefaultConfig()
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	middlewareConfig := h.GetMiddlewareConfig()

	// Gateway callbacks (no auth: verified by signature)
	router.HandleFunc("/api/payments/capture", h.CapturePayment).Methods("POST")
	router.HandleFunc("/api/payments/webhook", h.Webhook).Methods("POST")

	// Authenticated user routes (any logged-in user)
	router.HandleFunc("/api/payments/orders", middlewareConfig.GetAuthMiddleware()(h.CreateOrder)).Methods("POST")
	router.HandleFunc("/api/payments/my", middlewareConfig.GetAuthMiddleware()(h.GetMyPayments)).Methods("GET")
	router.HandleFunc("/api/payments/{orderID}/cancel", middlewareConfig.GetAuthMiddleware()(h.CancelPayment)).Methods("POST")
	router.HandleFunc("/api/payments/{orderID}", middlewareConfig.GetAuthMiddleware()(h.GetPayment)).Methods("GET")

	// Admin routes (require admin role)
	router.HandleFunc("/api/payments", middlewareConfig.GetAdminMiddleware()(h.ListPayments)).Methods("GET")
	router.HandleFunc("/api/payments/{orderID}/refund", middlewareConfig.GetAdminMiddleware()(h.RefundPayment)).Methods("POST")
	router.HandleFunc("/api/payments/{orderID}/fail", middlewareConfig.GetAdminMiddleware()(h.MarkFailed)).Methods("POST")
}

// RegisterHealthCheck registers health check endpoint
func (h *PaymentHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Settlement service is healthy",
		})
	}).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError maps an error kind to its HTTP status
func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusForKind(apperrors.KindOf(err)), Response{
		Success: false,
		Error:   apperrors.Message(err),
	})
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.Validation:
		return http.StatusBadRequest
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Signature, apperrors.Unauthorized:
		return http.StatusUnauthorized
	case apperrors.Forbidden:
		return http.StatusForbidden
	case apperrors.InvalidState:
		return http.StatusConflict
	case apperrors.InsufficientBalance:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

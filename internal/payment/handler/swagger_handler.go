package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	// Swagger UI
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreateOrder godoc
// @Summary Create a payment order
// @Description Create a gateway order for a course purchase, optionally with a referral code (Authenticated users)
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{course_id=int,teacher_id=int,university_id=int,amount=int,currency=string,coupon_code=string,coupon_discount=int,referral_code=string} true "Order data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/payments/orders [post]
func (h *PaymentHandler) CreateOrderDoc() {}

// CapturePayment godoc
// @Summary Capture a payment
// @Description Confirm a gateway payment with its signature and trigger the settlement split
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body object{razorpay_order_id=string,razorpay_payment_id=string,razorpay_signature=string} true "Capture data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/payments/capture [post]
func (h *PaymentHandler) CapturePaymentDoc() {}

// Webhook godoc
// @Summary Gateway webhook
// @Description Receive signed gateway events (payment.captured, payment.failed)
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/payments/webhook [post]
func (h *PaymentHandler) WebhookDoc() {}

// RefundPayment godoc
// @Summary Refund a payment
// @Description Issue a gateway refund for a captured payment (Admin only)
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param orderID path string true "Gateway order ID"
// @Param request body object{amount=int,reason=string} true "Refund data (amount 0 = full refund)"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/payments/{orderID}/refund [post]
func (h *PaymentHandler) RefundPaymentDoc() {}

// GetPayment godoc
// @Summary Get payment by order ID
// @Description Get a payment; non-admins only see their own
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param orderID path string true "Gateway order ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/payments/{orderID} [get]
func (h *PaymentHandler) GetPaymentDoc() {}

// ListPayments godoc
// @Summary List all payments
// @Description Get a list of all payments with pagination (Admin only)
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=object{payments=array,total=int}}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/payments [get]
func (h *PaymentHandler) ListPaymentsDoc() {}

// GetMyPayments godoc
// @Summary Get my payments
// @Description Get payments for the authenticated user
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=object{payments=array,total=int}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/payments/my [get]
func (h *PaymentHandler) GetMyPaymentsDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *PaymentHandler) HealthCheckDoc() {}

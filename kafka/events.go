package kafka

import "time"

// PaymentCapturedEvent announces a captured payment and its settlement split
type PaymentCapturedEvent struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	OrderID          string    `json:"order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id"`
	PayerID          uint      `json:"payer_id"`
	CourseID         uint      `json:"course_id"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	PlatformAmount   int64     `json:"platform_amount"`
	TeacherAmount    int64     `json:"teacher_amount"`
	UniversityAmount int64     `json:"university_amount"`
	ReferralAmount   int64     `json:"referral_amount"`
	Timestamp        time.Time `json:"timestamp"`
}

// PaymentRefundedEvent announces a gateway refund
type PaymentRefundedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	RefundID  string    `json:"refund_id"`
	PayerID   uint      `json:"payer_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentFailedEvent announces a gateway-reported payment failure
type PaymentFailedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	PayerID   uint      `json:"payer_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// SettlementProcessedEvent announces an approved or rejected payout request
type SettlementProcessedEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	SettlementID uint      `json:"settlement_id"`
	WalletID     uint      `json:"wallet_id"`
	OwnerID      uint      `json:"owner_id"`
	Amount       int64     `json:"amount"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypePaymentCaptured     = "payment.captured"
	EventTypePaymentRefunded     = "payment.refunded"
	EventTypePaymentFailed       = "payment.failed"
	EventTypeSettlementProcessed = "settlement.processed"
)

// Kafka topics
const (
	TopicPaymentCaptured     = "payment-captured"
	TopicPaymentRefunded     = "payment-refunded"
	TopicPaymentFailed       = "payment-failed"
	TopicSettlementProcessed = "settlement-processed"
)

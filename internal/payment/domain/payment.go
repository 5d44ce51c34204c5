package domain

import (
	"time"
)

// Payment statuses. Transitions are one-directional:
// pending -> captured -> refunded, pending -> failed, pending -> cancelled.
const (
	StatusPending   = "pending"
	StatusCaptured  = "captured"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
	StatusCancelled = "cancelled"
)

// Payment represents one purchase attempt. It is a financial record:
// rows are never deleted, only moved through the status lifecycle.
// All amounts are int64 in major currency units; the gateway boundary
// converts to minor units.
type Payment struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	OrderID  string `json:"order_id" gorm:"not null;uniqueIndex"` // gateway-assigned, immutable
	GatewayPaymentID string `json:"gateway_payment_id,omitempty" gorm:"index"` // set at capture
	Signature        string `json:"-"`

	PayerID      uint  `json:"payer_id" gorm:"not null;index"`
	CourseID     uint  `json:"course_id" gorm:"not null;index"`
	TeacherID    uint  `json:"teacher_id" gorm:"not null"`
	UniversityID uint  `json:"university_id" gorm:"not null"`
	PartnerID    *uint `json:"partner_id,omitempty" gorm:"index"`

	Amount        int64  `json:"amount" gorm:"not null"`
	Currency      string `json:"currency" gorm:"not null;default:'INR'"`
	Status        string `json:"status" gorm:"not null;default:'pending';index"`
	PaymentMethod string `json:"payment_method,omitempty"`

	CouponCode     string `json:"coupon_code,omitempty"`
	CouponDiscount int64  `json:"coupon_discount,omitempty"`

	// Referral terms stamped at order creation; immutable afterwards.
	ReferralRate       float64 `json:"referral_rate,omitempty"`
	ReferralCommission int64   `json:"referral_commission,omitempty"`

	// Settlement breakdown, computed exactly once at capture.
	SettlementComputed bool  `json:"settlement_computed" gorm:"not null;default:false"`
	TeacherAmount      int64 `json:"teacher_amount"`
	UniversityAmount   int64 `json:"university_amount"`
	PlatformAmount     int64 `json:"platform_amount"`
	ReferralAmount     int64 `json:"referral_amount"`
	TeacherSettled     bool  `json:"teacher_settled" gorm:"not null;default:false"`
	UniversitySettled  bool  `json:"university_settled" gorm:"not null;default:false"`
	ReferralSettled    bool  `json:"referral_settled" gorm:"not null;default:false"`

	CapturedAt   *time.Time `json:"captured_at,omitempty"`
	FailedAt     *time.Time `json:"failed_at,omitempty"`
	FailedReason string     `json:"failed_reason,omitempty"`

	RefundID     string     `json:"refund_id,omitempty"`
	RefundAmount int64      `json:"refund_amount,omitempty"`
	RefundReason string     `json:"refund_reason,omitempty"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`
	RefundedBy   uint       `json:"refunded_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// Settled party markers used when flagging individual split legs.
const (
	PartyTeacher    = "teacher"
	PartyUniversity = "university"
	PartyReferral   = "referral"
)

// CaptureUpdate carries everything a capture writes in one guarded update.
type CaptureUpdate struct {
	GatewayPaymentID string
	Signature        string
	CapturedAt       time.Time
	Split            Split
}

// RefundUpdate carries the refund block written on a captured payment.
type RefundUpdate struct {
	RefundID     string
	Amount       int64
	Reason       string
	RefundedAt   time.Time
	RefundedBy   uint
}

// PaymentRepository defines the contract for payment data access. State
// transitions are status-predicated updates: the boolean result reports
// whether this call performed the transition, so duplicate deliveries
// observe false and short-circuit instead of repeating side effects.
type PaymentRepository interface {
	Create(payment *Payment) error
	FindByOrderID(orderID string) (*Payment, error)
	FindByPayer(payerID uint, limit, offset int) ([]Payment, error)
	FindAll(limit, offset int) ([]Payment, error)
	// MarkCaptured transitions pending -> captured and persists the split,
	// guarded by status and the settlement_computed flag.
	MarkCaptured(orderID string, update CaptureUpdate) (bool, error)
	MarkFailed(orderID, reason string) (bool, error)
	MarkCancelled(orderID string) (bool, error)
	MarkRefunded(orderID string, update RefundUpdate) (bool, error)
	// MarkPartySettled flags one split leg as credited to its wallet.
	MarkPartySettled(orderID, party string) error
	// CountReferredCapturesByPayer counts the payer's captured or refunded
	// payments that carried a referral partner. It supports the
	// first-referred-payment conversion check; unreferred purchases do not
	// count against it.
	CountReferredCapturesByPayer(payerID uint) (int64, error)
}

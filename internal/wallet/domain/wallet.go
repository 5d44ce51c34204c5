package domain

import (
	"time"
)

// Owner roles. The settlement minimum depends on the role.
const (
	RoleTeacher         = "teacher"
	RoleUniversity      = "university"
	RoleReferralPartner = "referral_partner"
)

// MinSettlementAmount returns the smallest withdrawal a wallet owner may
// request, in major currency units.
func MinSettlementAmount(role string) int64 {
	if role == RoleReferralPartner {
		return 500
	}
	return 1000
}

// Wallet represents a user's ledger balance. One wallet per owner,
// created lazily on first access. Wallets are never deleted.
type Wallet struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;uniqueIndex"`
	OwnerRole string    `json:"owner_role" gorm:"not null"`
	Balance   int64     `json:"balance" gorm:"not null;default:0"`
	Currency  string    `json:"currency" gorm:"not null;default:'INR'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Wallet) TableName() string {
	return "wallets"
}

// Transaction types
const (
	TxnCredit     = "credit"
	TxnDebit      = "debit"
	TxnSettlement = "settlement"
	TxnRefund     = "refund"
	TxnCommission = "commission"
)

// Transaction statuses
const (
	TxnCompleted = "completed"
	TxnFailed    = "failed"
)

// TxnMetadata carries the references a ledger row keeps to the payment
// that produced it.
type TxnMetadata struct {
	PaymentID string `json:"payment_id,omitempty"`
	CourseID  uint   `json:"course_id,omitempty"`
}

// WalletTransaction is one row in a wallet's ledger.
type WalletTransaction struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	WalletID    uint        `json:"wallet_id" gorm:"not null;index"`
	Type        string      `json:"type" gorm:"not null"`
	Amount      int64       `json:"amount" gorm:"not null"`
	Description string      `json:"description"`
	Reference   string      `json:"reference" gorm:"index"` // gateway order id
	Status      string      `json:"status" gorm:"not null;default:'completed'"`
	Metadata    TxnMetadata `json:"metadata" gorm:"serializer:json"`
	ProcessedAt time.Time   `json:"processed_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

// TableName specifies the table name
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// Settlement request statuses
const (
	SettlementPending   = "pending"
	SettlementApproved  = "approved"
	SettlementRejected  = "rejected"
	SettlementProcessed = "processed"
)

// SettlementRequest is a withdrawal request against a wallet balance.
// The requested amount leaves the spendable balance at request time and
// comes back only on rejection.
type SettlementRequest struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	WalletID    uint       `json:"wallet_id" gorm:"not null;index"`
	Amount      int64      `json:"amount" gorm:"not null"`
	Status      string     `json:"status" gorm:"not null;default:'pending';index"`
	BankDetails string     `json:"bank_details,omitempty"`
	UpiID       string     `json:"upi_id,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	AdminNotes  string     `json:"admin_notes,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	ProcessedBy uint       `json:"processed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (SettlementRequest) TableName() string {
	return "settlement_requests"
}

// CanTransitionTo reports whether the request may move to the target
// status: pending -> approved|rejected, approved -> processed.
func (s *SettlementRequest) CanTransitionTo(target string) bool {
	switch s.Status {
	case SettlementPending:
		return target == SettlementApproved || target == SettlementRejected
	case SettlementApproved:
		return target == SettlementProcessed
	default:
		return false
	}
}

// WalletRepository defines the contract for wallet data access. Balance
// mutations are single atomic statements in the database paired with
// their ledger row inside one transaction, so concurrent settlements to
// the same wallet cannot lose updates.
type WalletRepository interface {
	FindOrCreateByOwner(ownerID uint, role, currency string) (*Wallet, error)
	FindByID(id uint) (*Wallet, error)
	FindByOwner(ownerID uint) (*Wallet, error)
	// Credit increases the balance and appends a completed ledger row.
	Credit(walletID uint, amount int64, txn *WalletTransaction) error
	// Debit decreases the balance, failing with InsufficientBalance if
	// the wallet does not hold the amount, and appends a ledger row.
	Debit(walletID uint, amount int64, txn *WalletTransaction) error
	// CreateSettlementRequest escrows the amount out of the balance and
	// appends the pending request plus its settlement ledger row.
	CreateSettlementRequest(walletID uint, req *SettlementRequest, txn *WalletTransaction) error
	FindSettlementRequest(walletID, requestID uint) (*SettlementRequest, error)
	// UpdateSettlementRequest persists a processed request, predicated on
	// expectedStatus being the status the caller validated the transition
	// from; InvalidState when the request no longer holds it. When refund
	// is non-nil the escrowed amount is returned to the balance in the
	// same transaction.
	UpdateSettlementRequest(req *SettlementRequest, expectedStatus string, refund *WalletTransaction) error
	ListTransactions(walletID uint, limit, offset int) ([]WalletTransaction, error)
	ListSettlementRequests(walletID uint, limit, offset int) ([]SettlementRequest, error)
	ListPendingSettlementRequests(limit, offset int) ([]SettlementRequest, error)
}

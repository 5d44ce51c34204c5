package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// GormWalletRepository implements WalletRepository using GORM
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GORM wallet repository
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

func (r *GormWalletRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Wallet{},
		&domain.WalletTransaction{},
		&domain.SettlementRequest{},
	)
}

// FindOrCreateByOwner returns the owner's wallet, creating it on first access.
func (r *GormWalletRepository) FindOrCreateByOwner(ownerID uint, role, currency string) (*domain.Wallet, error) {
	if currency == "" {
		currency = "INR"
	}
	wallet := domain.Wallet{OwnerID: ownerID, OwnerRole: role, Currency: currency}
	err := r.db.Where(domain.Wallet{OwnerID: ownerID}).
		FirstOrCreate(&wallet).Error
	if err != nil {
		return nil, apperrors.E(apperrors.Internal, "failed to find or create wallet", err)
	}
	return &wallet, nil
}

func (r *GormWalletRepository) FindByID(id uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.E(apperrors.NotFound, "wallet not found")
		}
		return nil, apperrors.E(apperrors.Internal, "failed to find wallet", err)
	}
	return &wallet, nil
}

func (r *GormWalletRepository) FindByOwner(ownerID uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := r.db.Where("owner_id = ?", ownerID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.E(apperrors.NotFound, "wallet not found")
		}
		return nil, apperrors.E(apperrors.Internal, "failed to find wallet", err)
	}
	return &wallet, nil
}

// Credit increments the balance in the database and appends the ledger row
// in the same transaction. The increment is a single UPDATE, so concurrent
// credits to one wallet serialize on the row instead of losing updates.
func (r *GormWalletRepository) Credit(walletID uint, amount int64, txn *domain.WalletTransaction) error {
	if amount <= 0 {
		return apperrors.E(apperrors.Validation, "credit amount must be positive")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Wallet{}).
			Where("id = ?", walletID).
			UpdateColumn("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return apperrors.E(apperrors.Internal, "failed to credit wallet", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.E(apperrors.NotFound, "wallet not found")
		}
		return r.appendTransaction(tx, walletID, amount, txn)
	})
}

// Debit decrements the balance only when the wallet holds the amount. The
// balance guard lives in the WHERE clause: zero rows affected on an
// existing wallet means insufficient funds, and nothing has changed.
func (r *GormWalletRepository) Debit(walletID uint, amount int64, txn *domain.WalletTransaction) error {
	if amount <= 0 {
		return apperrors.E(apperrors.Validation, "debit amount must be positive")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.guardedDebit(tx, walletID, amount); err != nil {
			return err
		}
		return r.appendTransaction(tx, walletID, amount, txn)
	})
}

// CreateSettlementRequest escrows the amount and appends the pending
// request plus its settlement ledger row, all in one transaction.
func (r *GormWalletRepository) CreateSettlementRequest(walletID uint, req *domain.SettlementRequest, txn *domain.WalletTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.guardedDebit(tx, walletID, req.Amount); err != nil {
			return err
		}

		req.WalletID = walletID
		req.Status = domain.SettlementPending
		if req.RequestedAt.IsZero() {
			req.RequestedAt = time.Now()
		}
		if err := tx.Create(req).Error; err != nil {
			return apperrors.E(apperrors.Internal, "failed to create settlement request", err)
		}

		return r.appendTransaction(tx, walletID, req.Amount, txn)
	})
}

func (r *GormWalletRepository) FindSettlementRequest(walletID, requestID uint) (*domain.SettlementRequest, error) {
	var req domain.SettlementRequest
	err := r.db.Where("id = ? AND wallet_id = ?", requestID, walletID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.E(apperrors.NotFound, "settlement request not found")
		}
		return nil, apperrors.E(apperrors.Internal, "failed to find settlement request", err)
	}
	return &req, nil
}

// UpdateSettlementRequest persists the processed request. The status
// column is updated with the status the caller validated the transition
// from as a predicate, so two admins processing the same request
// concurrently cannot both succeed: the loser's stale decision matches
// zero rows. When refund is non-nil the escrowed amount is returned to
// the balance.
func (r *GormWalletRepository) UpdateSettlementRequest(req *domain.SettlementRequest, expectedStatus string, refund *domain.WalletTransaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.SettlementRequest{}).
			Where("id = ? AND status = ?", req.ID, expectedStatus).
			Updates(map[string]interface{}{
				"status":       req.Status,
				"admin_notes":  req.AdminNotes,
				"processed_at": req.ProcessedAt,
				"processed_by": req.ProcessedBy,
			})
		if res.Error != nil {
			return apperrors.E(apperrors.Internal, "failed to update settlement request", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.E(apperrors.InvalidState, "settlement request was processed concurrently")
		}

		if refund == nil {
			return nil
		}

		res = tx.Model(&domain.Wallet{}).
			Where("id = ?", req.WalletID).
			UpdateColumn("balance", gorm.Expr("balance + ?", refund.Amount))
		if res.Error != nil {
			return apperrors.E(apperrors.Internal, "failed to restore wallet balance", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.E(apperrors.NotFound, "wallet not found")
		}
		return r.appendTransaction(tx, req.WalletID, refund.Amount, refund)
	})
}

func (r *GormWalletRepository) ListTransactions(walletID uint, limit, offset int) ([]domain.WalletTransaction, error) {
	var txns []domain.WalletTransaction
	err := r.db.Where("wallet_id = ?", walletID).
		Limit(normalizeLimit(limit)).Offset(offset).
		Order("created_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, apperrors.E(apperrors.Internal, "failed to list transactions", err)
	}
	return txns, nil
}

func (r *GormWalletRepository) ListSettlementRequests(walletID uint, limit, offset int) ([]domain.SettlementRequest, error) {
	var reqs []domain.SettlementRequest
	err := r.db.Where("wallet_id = ?", walletID).
		Limit(normalizeLimit(limit)).Offset(offset).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, apperrors.E(apperrors.Internal, "failed to list settlement requests", err)
	}
	return reqs, nil
}

func (r *GormWalletRepository) ListPendingSettlementRequests(limit, offset int) ([]domain.SettlementRequest, error) {
	var reqs []domain.SettlementRequest
	err := r.db.Where("status = ?", domain.SettlementPending).
		Limit(normalizeLimit(limit)).Offset(offset).
		Order("requested_at ASC").
		Find(&reqs).Error
	if err != nil {
		return nil, apperrors.E(apperrors.Internal, "failed to list pending settlement requests", err)
	}
	return reqs, nil
}

// guardedDebit decrements the balance with the sufficiency check inside
// the WHERE clause. Zero rows affected means either a missing wallet or
// insufficient funds; a follow-up read tells them apart.
func (r *GormWalletRepository) guardedDebit(tx *gorm.DB, walletID uint, amount int64) error {
	res := tx.Model(&domain.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return apperrors.E(apperrors.Internal, "failed to debit wallet", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&domain.Wallet{}).Where("id = ?", walletID).Count(&count).Error; err != nil {
			return apperrors.E(apperrors.Internal, "failed to check wallet", err)
		}
		if count == 0 {
			return apperrors.E(apperrors.NotFound, "wallet not found")
		}
		return apperrors.E(apperrors.InsufficientBalance, "wallet balance is insufficient")
	}
	return nil
}

func (r *GormWalletRepository) appendTransaction(tx *gorm.DB, walletID uint, amount int64, txn *domain.WalletTransaction) error {
	txn.WalletID = walletID
	txn.Amount = amount
	if txn.Status == "" {
		txn.Status = domain.TxnCompleted
	}
	if txn.ProcessedAt.IsZero() {
		txn.ProcessedAt = time.Now()
	}
	if err := tx.Create(txn).Error; err != nil {
		return apperrors.E(apperrors.Internal, "failed to append wallet transaction", err)
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}

package command

import (
	"context"
	"testing"

	"github.com/learnpay/settlement-engine/internal/payment/domain"
	referraldomain "github.com/learnpay/settlement-engine/internal/referral/domain"
	referralcmd "github.com/learnpay/settlement-engine/internal/referral/usecase/command"
	walletdomain "github.com/learnpay/settlement-engine/internal/wallet/domain"
	walletcmd "github.com/learnpay/settlement-engine/internal/wallet/usecase/command"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

// fakePaymentRepo mirrors the guarded-update semantics of the database
// repository against an in-memory map.
type fakePaymentRepo struct {
	payments map[string]*domain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *fakePaymentRepo) Create(p *domain.Payment) error {
	cp := *p
	r.payments[p.OrderID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByOrderID(orderID string) (*domain.Payment, error) {
	p, ok := r.payments[orderID]
	if !ok {
		return nil, apperrors.E(apperrors.NotFound, "payment not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindByPayer(payerID uint, limit, offset int) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range r.payments {
		if p.PayerID == payerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindAll(limit, offset int) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range r.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePaymentRepo) MarkCaptured(orderID string, update domain.CaptureUpdate) (bool, error) {
	p, ok := r.payments[orderID]
	if !ok || p.Status != domain.StatusPending || p.SettlementComputed {
		return false, nil
	}
	p.Status = domain.StatusCaptured
	p.GatewayPaymentID = update.GatewayPaymentID
	p.Signature = update.Signature
	capturedAt := update.CapturedAt
	p.CapturedAt = &capturedAt
	p.SettlementComputed = true
	p.PlatformAmount = update.Split.Platform
	p.TeacherAmount = update.Split.Teacher
	p.UniversityAmount = update.Split.University
	p.ReferralAmount = update.Split.Referral
	return true, nil
}

func (r *fakePaymentRepo) MarkFailed(orderID, reason string) (bool, error) {
	p, ok := r.payments[orderID]
	if !ok || p.Status != domain.StatusPending {
		return false, nil
	}
	p.Status = domain.StatusFailed
	p.FailedReason = reason
	return true, nil
}

func (r *fakePaymentRepo) MarkCancelled(orderID string) (bool, error) {
	p, ok := r.payments[orderID]
	if !ok || p.Status != domain.StatusPending {
		return false, nil
	}
	p.Status = domain.StatusCancelled
	return true, nil
}

func (r *fakePaymentRepo) MarkRefunded(orderID string, update domain.RefundUpdate) (bool, error) {
	p, ok := r.payments[orderID]
	if !ok || p.Status != domain.StatusCaptured {
		return false, nil
	}
	p.Status = domain.StatusRefunded
	p.RefundID = update.RefundID
	p.RefundAmount = update.Amount
	p.RefundReason = update.Reason
	return true, nil
}

func (r *fakePaymentRepo) MarkPartySettled(orderID, party string) error {
	p, ok := r.payments[orderID]
	if !ok {
		return apperrors.E(apperrors.NotFound, "payment not found")
	}
	switch party {
	case domain.PartyTeacher:
		p.TeacherSettled = true
	case domain.PartyUniversity:
		p.UniversitySettled = true
	case domain.PartyReferral:
		p.ReferralSettled = true
	}
	return nil
}

func (r *fakePaymentRepo) CountReferredCapturesByPayer(payerID uint) (int64, error) {
	var count int64
	for _, p := range r.payments {
		if p.PayerID == payerID && p.PartnerID != nil &&
			(p.Status == domain.StatusCaptured || p.Status == domain.StatusRefunded) {
			count++
		}
	}
	return count, nil
}

// fakeGateway accepts exactly one signature string and records calls.
type fakeGateway struct {
	validSignature string
	orders         int
	refunds        int
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	g.orders++
	return "order_test", nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == g.validSignature
}

func (g *fakeGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	return signature == g.validSignature
}

func (g *fakeGateway) Refund(ctx context.Context, paymentID string, amountMinor int64, reason string) (string, error) {
	g.refunds++
	return "rfnd_test", nil
}

// fakeWalletRepo keeps balances and ledgers in memory.
type fakeWalletRepo struct {
	nextID  uint
	wallets map[uint]*walletdomain.Wallet // by owner id
	ledger  map[uint][]walletdomain.WalletTransaction
}

func newFakeWalletRepo() *fakeWalletRepo {
	return &fakeWalletRepo{
		nextID:  1,
		wallets: make(map[uint]*walletdomain.Wallet),
		ledger:  make(map[uint][]walletdomain.WalletTransaction),
	}
}

func (r *fakeWalletRepo) FindOrCreateByOwner(ownerID uint, role, currency string) (*walletdomain.Wallet, error) {
	if w, ok := r.wallets[ownerID]; ok {
		cp := *w
		return &cp, nil
	}
	w := &walletdomain.Wallet{ID: r.nextID, OwnerID: ownerID, OwnerRole: role, Currency: currency}
	r.nextID++
	r.wallets[ownerID] = w
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) FindByID(id uint) (*walletdomain.Wallet, error) {
	for _, w := range r.wallets {
		if w.ID == id {
			cp := *w
			return &cp, nil
		}
	}
	return nil, apperrors.E(apperrors.NotFound, "wallet not found")
}

func (r *fakeWalletRepo) FindByOwner(ownerID uint) (*walletdomain.Wallet, error) {
	w, ok := r.wallets[ownerID]
	if !ok {
		return nil, apperrors.E(apperrors.NotFound, "wallet not found")
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) Credit(walletID uint, amount int64, txn *walletdomain.WalletTransaction) error {
	for _, w := range r.wallets {
		if w.ID == walletID {
			w.Balance += amount
			txn.WalletID = walletID
			txn.Amount = amount
			r.ledger[walletID] = append(r.ledger[walletID], *txn)
			return nil
		}
	}
	return apperrors.E(apperrors.NotFound, "wallet not found")
}

func (r *fakeWalletRepo) Debit(walletID uint, amount int64, txn *walletdomain.WalletTransaction) error {
	for _, w := range r.wallets {
		if w.ID == walletID {
			if w.Balance < amount {
				return apperrors.E(apperrors.InsufficientBalance, "insufficient balance")
			}
			w.Balance -= amount
			txn.WalletID = walletID
			txn.Amount = amount
			r.ledger[walletID] = append(r.ledger[walletID], *txn)
			return nil
		}
	}
	return apperrors.E(apperrors.NotFound, "wallet not found")
}

func (r *fakeWalletRepo) CreateSettlementRequest(walletID uint, req *walletdomain.SettlementRequest, txn *walletdomain.WalletTransaction) error {
	return r.Debit(walletID, req.Amount, txn)
}

func (r *fakeWalletRepo) FindSettlementRequest(walletID, requestID uint) (*walletdomain.SettlementRequest, error) {
	return nil, apperrors.E(apperrors.NotFound, "settlement request not found")
}

func (r *fakeWalletRepo) UpdateSettlementRequest(req *walletdomain.SettlementRequest, expectedStatus string, refund *walletdomain.WalletTransaction) error {
	return nil
}

func (r *fakeWalletRepo) ListTransactions(walletID uint, limit, offset int) ([]walletdomain.WalletTransaction, error) {
	return r.ledger[walletID], nil
}

func (r *fakeWalletRepo) ListSettlementRequests(walletID uint, limit, offset int) ([]walletdomain.SettlementRequest, error) {
	return nil, nil
}

func (r *fakeWalletRepo) ListPendingSettlementRequests(limit, offset int) ([]walletdomain.SettlementRequest, error) {
	return nil, nil
}

// fakePartnerRepo keeps partners in memory.
type fakePartnerRepo struct {
	partners map[uint]*referraldomain.ReferralPartner
}

func newFakePartnerRepo() *fakePartnerRepo {
	return &fakePartnerRepo{partners: make(map[uint]*referraldomain.ReferralPartner)}
}

func (r *fakePartnerRepo) Create(p *referraldomain.ReferralPartner) error {
	r.partners[p.ID] = p
	return nil
}

func (r *fakePartnerRepo) FindByID(id uint) (*referraldomain.ReferralPartner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, apperrors.E(apperrors.NotFound, "partner not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakePartnerRepo) FindByUserID(userID uint) (*referraldomain.ReferralPartner, error) {
	for _, p := range r.partners {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.E(apperrors.NotFound, "partner not found")
}

func (r *fakePartnerRepo) FindByCode(code string) (*referraldomain.ReferralPartner, error) {
	for _, p := range r.partners {
		if p.ReferralCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.E(apperrors.NotFound, "partner not found")
}

func (r *fakePartnerRepo) RecordReferral(id uint) (*referraldomain.ReferralPartner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, apperrors.E(apperrors.NotFound, "partner not found")
	}
	p.TotalReferrals++
	p.Recalculate()
	cp := *p
	return &cp, nil
}

func newCaptureFixture() (*CapturePaymentHandler, *fakePaymentRepo, *fakeWalletRepo, *fakePartnerRepo) {
	payments := newFakePaymentRepo()
	wallets := newFakeWalletRepo()
	partners := newFakePartnerRepo()
	gw := &fakeGateway{validSignature: "good-sig"}

	handler := NewCapturePaymentHandler(
		payments,
		gw,
		walletcmd.NewCreditWalletHandler(wallets),
		referralcmd.NewRecordConversionHandler(partners),
	)
	return handler, payments, wallets, partners
}

func pendingPayment(partnerID *uint, commission int64) *domain.Payment {
	return &domain.Payment{
		OrderID:            "order_1",
		PayerID:            10,
		CourseID:           20,
		TeacherID:          30,
		UniversityID:       40,
		PartnerID:          partnerID,
		Amount:             1000,
		Currency:           "INR",
		Status:             domain.StatusPending,
		ReferralCommission: commission,
	}
}

func TestCaptureComputesSplitAndCreditsWallets(t *testing.T) {
	handler, payments, wallets, _ := newCaptureFixture()
	payments.Create(pendingPayment(nil, 0))

	captured, err := handler.Handle(context.Background(), CapturePaymentCommand{
		OrderID:          "order_1",
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if captured.Status != domain.StatusCaptured {
		t.Errorf("status: got %s, want captured", captured.Status)
	}
	if !captured.SettlementComputed {
		t.Error("settlement_computed not set")
	}
	if captured.PlatformAmount != 100 || captured.TeacherAmount != 630 || captured.UniversityAmount != 270 {
		t.Errorf("split: got %d/%d/%d, want 100/630/270",
			captured.PlatformAmount, captured.TeacherAmount, captured.UniversityAmount)
	}
	if !captured.TeacherSettled || !captured.UniversitySettled {
		t.Error("split legs not flagged settled")
	}

	teacher, err := wallets.FindByOwner(30)
	if err != nil {
		t.Fatalf("teacher wallet: %v", err)
	}
	if teacher.Balance != 630 {
		t.Errorf("teacher balance: got %d, want 630", teacher.Balance)
	}
	university, err := wallets.FindByOwner(40)
	if err != nil {
		t.Fatalf("university wallet: %v", err)
	}
	if university.Balance != 270 {
		t.Errorf("university balance: got %d, want 270", university.Balance)
	}
}

func TestCaptureIsIdempotent(t *testing.T) {
	handler, payments, wallets, _ := newCaptureFixture()
	payments.Create(pendingPayment(nil, 0))

	cmd := CapturePaymentCommand{
		OrderID:          "order_1",
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	}

	if _, err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	if _, err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("duplicate capture: %v", err)
	}
	if _, err := handler.HandleWebhook(context.Background(), "order_1", "pay_1"); err != nil {
		t.Fatalf("webhook duplicate: %v", err)
	}

	teacher, _ := wallets.FindByOwner(30)
	if teacher.Balance != 630 {
		t.Errorf("teacher balance after duplicates: got %d, want 630", teacher.Balance)
	}
	ledger, _ := wallets.ListTransactions(teacher.ID, 0, 0)
	if len(ledger) != 1 {
		t.Errorf("teacher ledger rows: got %d, want 1", len(ledger))
	}
}

func TestCaptureRejectsBadSignature(t *testing.T) {
	handler, payments, wallets, _ := newCaptureFixture()
	payments.Create(pendingPayment(nil, 0))

	_, err := handler.Handle(context.Background(), CapturePaymentCommand{
		OrderID:          "order_1",
		GatewayPaymentID: "pay_1",
		Signature:        "forged",
	})
	if !apperrors.IsKind(err, apperrors.Signature) {
		t.Fatalf("error kind: got %v, want Signature", err)
	}

	p, _ := payments.FindByOrderID("order_1")
	if p.Status != domain.StatusPending {
		t.Errorf("status after rejected capture: got %s, want pending", p.Status)
	}
	if _, err := wallets.FindByOwner(30); !apperrors.IsKind(err, apperrors.NotFound) {
		t.Error("wallet credited despite rejected signature")
	}
}

func TestCaptureUnknownOrder(t *testing.T) {
	handler, _, _, _ := newCaptureFixture()

	_, err := handler.Handle(context.Background(), CapturePaymentCommand{
		OrderID:          "order_missing",
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	})
	if !apperrors.IsKind(err, apperrors.NotFound) {
		t.Fatalf("error kind: got %v, want NotFound", err)
	}
}

func TestCaptureFromTerminalStateFails(t *testing.T) {
	handler, payments, _, _ := newCaptureFixture()
	p := pendingPayment(nil, 0)
	p.Status = domain.StatusFailed
	payments.Create(p)

	_, err := handler.Handle(context.Background(), CapturePaymentCommand{
		OrderID:          "order_1",
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	})
	if !apperrors.IsKind(err, apperrors.InvalidState) {
		t.Fatalf("error kind: got %v, want InvalidState", err)
	}
}

func TestCaptureCreditsReferralAndRecordsConversion(t *testing.T) {
	handler, payments, wallets, partners := newCaptureFixture()

	partner := &referraldomain.ReferralPartner{ID: 7, UserID: 70, ReferralCode: "REF-1", IsActive: true}
	partner.Recalculate()
	partners.Create(partner)

	partnerID := uint(7)
	p := pendingPayment(&partnerID, 50)
	p.ReferralRate = 5
	payments.Create(p)

	captured, err := handler.Handle(context.Background(), CapturePaymentCommand{
		OrderID:          "order_1",
		GatewayPaymentID: "pay_1",
		Signature:        "good-sig",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if captured.ReferralAmount != 50 || !captured.ReferralSettled {
		t.Errorf("referral leg: amount %d settled %v, want 50 true",
			captured.ReferralAmount, captured.ReferralSettled)
	}
	if captured.TeacherAmount != 595 || captured.UniversityAmount != 255 {
		t.Errorf("split with referral: got %d/%d, want 595/255",
			captured.TeacherAmount, captured.UniversityAmount)
	}

	partnerWallet, err := wallets.FindByOwner(7)
	if err != nil {
		t.Fatalf("partner wallet: %v", err)
	}
	if partnerWallet.Balance != 50 {
		t.Errorf("partner balance: got %d, want 50", partnerWallet.Balance)
	}

	updated, _ := partners.FindByID(7)
	if updated.TotalReferrals != 1 {
		t.Errorf("total referrals: got %d, want 1", updated.TotalReferrals)
	}
}

// A payer's second captured payment must not count as another conversion.
func TestConversionOnlyOnFirstCapturedPayment(t *testing.T) {
	handler, payments, _, partners := newCaptureFixture()

	partner := &referraldomain.ReferralPartner{ID: 7, UserID: 70, ReferralCode: "REF-1", IsActive: true}
	partner.Recalculate()
	partners.Create(partner)

	partnerID := uint(7)
	first := pendingPayment(&partnerID, 50)
	payments.Create(first)

	second := pendingPayment(&partnerID, 50)
	second.OrderID = "order_2"
	payments.Create(second)

	sig := CapturePaymentCommand{OrderID: "order_1", GatewayPaymentID: "pay_1", Signature: "good-sig"}
	if _, err := handler.Handle(context.Background(), sig); err != nil {
		t.Fatalf("first capture: %v", err)
	}
	sig.OrderID = "order_2"
	sig.GatewayPaymentID = "pay_2"
	if _, err := handler.Handle(context.Background(), sig); err != nil {
		t.Fatalf("second capture: %v", err)
	}

	updated, _ := partners.FindByID(7)
	if updated.TotalReferrals != 1 {
		t.Errorf("total referrals after two captures by same payer: got %d, want 1", updated.TotalReferrals)
	}
}

// A payer with earlier unreferred purchases still converts on their first
// referred capture.
func TestConversionCountsOnlyReferredCaptures(t *testing.T) {
	handler, payments, _, partners := newCaptureFixture()

	partner := &referraldomain.ReferralPartner{ID: 7, UserID: 70, ReferralCode: "REF-1", IsActive: true}
	partner.Recalculate()
	partners.Create(partner)

	unreferred := pendingPayment(nil, 0)
	payments.Create(unreferred)

	partnerID := uint(7)
	referred := pendingPayment(&partnerID, 50)
	referred.OrderID = "order_2"
	payments.Create(referred)

	cmd := CapturePaymentCommand{OrderID: "order_1", GatewayPaymentID: "pay_1", Signature: "good-sig"}
	if _, err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("unreferred capture: %v", err)
	}

	cmd.OrderID = "order_2"
	cmd.GatewayPaymentID = "pay_2"
	if _, err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("referred capture: %v", err)
	}

	updated, _ := partners.FindByID(7)
	if updated.TotalReferrals != 1 {
		t.Errorf("total referrals after prior unreferred purchase: got %d, want 1", updated.TotalReferrals)
	}
}

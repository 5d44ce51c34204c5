package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/internal/payment/usecase/command"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

type fakeDeduper struct {
	claims   map[string]bool
	claimErr error
}

func newFakeDeduper() *fakeDeduper {
	return &fakeDeduper{claims: make(map[string]bool)}
}

func (d *fakeDeduper) Claim(ctx context.Context, eventID string) (bool, error) {
	if d.claimErr != nil {
		return false, d.claimErr
	}
	if d.claims[eventID] {
		return false, nil
	}
	d.claims[eventID] = true
	return true, nil
}

func (d *fakeDeduper) Release(ctx context.Context, eventID string) {
	delete(d.claims, eventID)
}

type webhookPaymentRepo struct {
	payments        map[string]*domain.Payment
	findErr         error
	markFailedCalls int
}

func newWebhookPaymentRepo() *webhookPaymentRepo {
	return &webhookPaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *webhookPaymentRepo) Create(p *domain.Payment) error {
	cp := *p
	r.payments[p.OrderID] = &cp
	return nil
}

func (r *webhookPaymentRepo) FindByOrderID(orderID string) (*domain.Payment, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.payments[orderID]
	if !ok {
		return nil, apperrors.E(apperrors.NotFound, "payment not found")
	}
	cp := *p
	return &cp, nil
}

func (r *webhookPaymentRepo) FindByPayer(payerID uint, limit, offset int) ([]domain.Payment, error) {
	return nil, nil
}

func (r *webhookPaymentRepo) FindAll(limit, offset int) ([]domain.Payment, error) {
	return nil, nil
}

func (r *webhookPaymentRepo) MarkCaptured(orderID string, update domain.CaptureUpdate) (bool, error) {
	p, ok := r.payments[orderID]
	if !ok || p.Status != domain.StatusPending || p.SettlementComputed {
		return false, nil
	}
	p.Status = domain.StatusCaptured
	p.GatewayPaymentID = update.GatewayPaymentID
	p.Signature = update.Signature
	p.CapturedAt = &update.CapturedAt
	p.SettlementComputed = true
	p.TeacherAmount = update.Split.Teacher
	p.UniversityAmount = update.Split.University
	p.PlatformAmount = update.Split.Platform
	p.ReferralAmount = update.Split.Referral
	return true, nil
}

func (r *webhookPaymentRepo) MarkFailed(orderID, reason string) (bool, error) {
	r.markFailedCalls++
	p, ok := r.payments[orderID]
	if !ok || p.Status != domain.StatusPending {
		return false, nil
	}
	p.Status = domain.StatusFailed
	p.FailedReason = reason
	return true, nil
}

func (r *webhookPaymentRepo) MarkCancelled(orderID string) (bool, error) {
	return false, nil
}

func (r *webhookPaymentRepo) MarkRefunded(orderID string, update domain.RefundUpdate) (bool, error) {
	return false, nil
}

func (r *webhookPaymentRepo) MarkPartySettled(orderID, party string) error {
	return nil
}

func (r *webhookPaymentRepo) CountReferredCapturesByPayer(payerID uint) (int64, error) {
	return 0, nil
}

type webhookGateway struct{}

func (webhookGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	return "order_wh", nil
}

func (webhookGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return true
}

func (webhookGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	return signature == "good"
}

func (webhookGateway) Refund(ctx context.Context, paymentID string, amountMinor int64, reason string) (string, error) {
	return "rfnd_wh", nil
}

func newWebhookFixture() (*PaymentHandler, *webhookPaymentRepo, *fakeDeduper) {
	repo := newWebhookPaymentRepo()
	repo.Create(&domain.Payment{
		OrderID:      "order_wh_1",
		PayerID:      7,
		CourseID:     3,
		TeacherID:    11,
		UniversityID: 21,
		Amount:       1000,
		Currency:     "INR",
		Status:       domain.StatusPending,
	})
	dedupe := newFakeDeduper()
	h := &PaymentHandler{
		captureHandler:    command.NewCapturePaymentHandler(repo, webhookGateway{}, nil, nil),
		markFailedHandler: command.NewMarkFailedHandler(repo),
		repo:              repo,
		dedupe:            dedupe,
	}
	return h, repo, dedupe
}

func postWebhook(h *PaymentHandler, signature, eventID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewBufferString(body))
	req.Header.Set("X-Razorpay-Signature", signature)
	if eventID != "" {
		req.Header.Set("X-Razorpay-Event-Id", eventID)
	}
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)
	return rec
}

func failedEventBody(orderID string) string {
	return fmt.Sprintf(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_wh_1","order_id":%q,"error_description":"card declined"}}}}`, orderID)
}

func TestWebhookReleasesClaimWhenProcessingFails(t *testing.T) {
	h, repo, dedupe := newWebhookFixture()
	body := failedEventBody("order_wh_1")

	repo.findErr = apperrors.E(apperrors.Internal, "database unavailable")
	rec := postWebhook(h, "good", "evt_1", body)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("first delivery status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if dedupe.claims["evt_1"] {
		t.Errorf("event id still claimed after failed processing")
	}

	repo.findErr = nil
	rec = postWebhook(h, "good", "evt_1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("retry status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if got := repo.payments["order_wh_1"].Status; got != domain.StatusFailed {
		t.Errorf("payment status after retry: got %q, want %q", got, domain.StatusFailed)
	}
	if !dedupe.claims["evt_1"] {
		t.Errorf("event id not claimed after successful retry")
	}
}

func TestWebhookSuppressesDuplicateDelivery(t *testing.T) {
	h, repo, _ := newWebhookFixture()
	body := failedEventBody("order_wh_1")

	rec := postWebhook(h, "good", "evt_2", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("first delivery status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if repo.markFailedCalls != 1 {
		t.Fatalf("MarkFailed calls after first delivery: got %d, want 1", repo.markFailedCalls)
	}

	rec = postWebhook(h, "good", "evt_2", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate delivery status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if repo.markFailedCalls != 1 {
		t.Errorf("MarkFailed calls after duplicate delivery: got %d, want 1", repo.markFailedCalls)
	}
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	h, repo, dedupe := newWebhookFixture()

	rec := postWebhook(h, "bad", "evt_3", failedEventBody("order_wh_1"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if len(dedupe.claims) != 0 {
		t.Errorf("claims recorded for a rejected delivery: %v", dedupe.claims)
	}
	if got := repo.payments["order_wh_1"].Status; got != domain.StatusPending {
		t.Errorf("payment status: got %q, want %q", got, domain.StatusPending)
	}
}

func TestWebhookProceedsWhenDedupeUnavailable(t *testing.T) {
	h, repo, dedupe := newWebhookFixture()
	dedupe.claimErr = apperrors.E(apperrors.Internal, "redis unavailable")

	rec := postWebhook(h, "good", "evt_4", failedEventBody("order_wh_1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if got := repo.payments["order_wh_1"].Status; got != domain.StatusFailed {
		t.Errorf("payment status: got %q, want %q", got, domain.StatusFailed)
	}
}

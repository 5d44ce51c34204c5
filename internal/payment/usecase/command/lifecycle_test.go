package command

import (
	"context"
	"testing"

	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

func TestMarkFailedTransitionsAndIsIdempotent(t *testing.T) {
	payments := newFakePaymentRepo()
	payments.Create(pendingPayment(nil, 0))
	handler := NewMarkFailedHandler(payments)

	cmd := MarkFailedCommand{OrderID: "order_1", Reason: "card declined"}

	failed, err := handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if failed.Status != domain.StatusFailed || failed.FailedReason != "card declined" {
		t.Errorf("failed payment: status %s reason %q", failed.Status, failed.FailedReason)
	}

	again, err := handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("repeat failure report: %v", err)
	}
	if again.Status != domain.StatusFailed {
		t.Errorf("status after repeat: got %s, want failed", again.Status)
	}
}

func TestMarkFailedAfterCaptureIsRejected(t *testing.T) {
	payments := newFakePaymentRepo()
	p := pendingPayment(nil, 0)
	p.Status = domain.StatusCaptured
	payments.Create(p)
	handler := NewMarkFailedHandler(payments)

	_, err := handler.Handle(context.Background(), MarkFailedCommand{OrderID: "order_1", Reason: "late failure"})
	if !apperrors.IsKind(err, apperrors.InvalidState) {
		t.Fatalf("got %v, want InvalidState", err)
	}
}

func TestRefundFullAmountByDefault(t *testing.T) {
	payments := newFakePaymentRepo()
	p := pendingPayment(nil, 0)
	p.Status = domain.StatusCaptured
	p.GatewayPaymentID = "pay_1"
	payments.Create(p)
	gw := &fakeGateway{}
	handler := NewRefundPaymentHandler(payments, gw)

	refunded, err := handler.Handle(context.Background(), RefundPaymentCommand{
		OrderID:     "order_1",
		Reason:      "course withdrawn",
		RequestedBy: 1,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if refunded.Status != domain.StatusRefunded {
		t.Errorf("status: got %s, want refunded", refunded.Status)
	}
	if refunded.RefundAmount != 1000 {
		t.Errorf("refund amount: got %d, want full 1000", refunded.RefundAmount)
	}
	if refunded.RefundID != "rfnd_test" {
		t.Errorf("refund id: got %s, want rfnd_test", refunded.RefundID)
	}
	if gw.refunds != 1 {
		t.Errorf("gateway refunds: got %d, want 1", gw.refunds)
	}
}

func TestRefundValidatesAmountAndState(t *testing.T) {
	payments := newFakePaymentRepo()
	p := pendingPayment(nil, 0)
	p.Status = domain.StatusCaptured
	p.GatewayPaymentID = "pay_1"
	payments.Create(p)
	handler := NewRefundPaymentHandler(payments, &fakeGateway{})

	if _, err := handler.Handle(context.Background(), RefundPaymentCommand{OrderID: "order_1", Amount: 1500}); !apperrors.IsKind(err, apperrors.Validation) {
		t.Errorf("over-refund: got %v, want Validation", err)
	}
	if _, err := handler.Handle(context.Background(), RefundPaymentCommand{OrderID: "order_1", Amount: -1}); !apperrors.IsKind(err, apperrors.Validation) {
		t.Errorf("negative refund: got %v, want Validation", err)
	}

	pendingRepo := newFakePaymentRepo()
	pendingRepo.Create(pendingPayment(nil, 0))
	pendingHandler := NewRefundPaymentHandler(pendingRepo, &fakeGateway{})
	if _, err := pendingHandler.Handle(context.Background(), RefundPaymentCommand{OrderID: "order_1"}); !apperrors.IsKind(err, apperrors.InvalidState) {
		t.Errorf("refund of pending payment: got %v, want InvalidState", err)
	}
}

func TestRefundIsSingleShot(t *testing.T) {
	payments := newFakePaymentRepo()
	p := pendingPayment(nil, 0)
	p.Status = domain.StatusCaptured
	p.GatewayPaymentID = "pay_1"
	payments.Create(p)
	gw := &fakeGateway{}
	handler := NewRefundPaymentHandler(payments, gw)

	if _, err := handler.Handle(context.Background(), RefundPaymentCommand{OrderID: "order_1"}); err != nil {
		t.Fatalf("first refund: %v", err)
	}
	if _, err := handler.Handle(context.Background(), RefundPaymentCommand{OrderID: "order_1"}); !apperrors.IsKind(err, apperrors.InvalidState) {
		t.Fatalf("second refund: got %v, want InvalidState", err)
	}
	if gw.refunds != 1 {
		t.Errorf("gateway refunds: got %d, want 1", gw.refunds)
	}
}

func TestCancelIsPayerOnly(t *testing.T) {
	payments := newFakePaymentRepo()
	payments.Create(pendingPayment(nil, 0))
	handler := NewCancelPaymentHandler(payments)

	if _, err := handler.Handle(context.Background(), CancelPaymentCommand{OrderID: "order_1", PayerID: 99}); !apperrors.IsKind(err, apperrors.Forbidden) {
		t.Fatalf("foreign payer: got %v, want Forbidden", err)
	}

	cancelled, err := handler.Handle(context.Background(), CancelPaymentCommand{OrderID: "order_1", PayerID: 10})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if cancelled.Status != domain.StatusCancelled {
		t.Errorf("status: got %s, want cancelled", cancelled.Status)
	}

	// repeat cancel is a no-op success
	if _, err := handler.Handle(context.Background(), CancelPaymentCommand{OrderID: "order_1", PayerID: 10}); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
}

func TestCancelCapturedPaymentIsRejected(t *testing.T) {
	payments := newFakePaymentRepo()
	p := pendingPayment(nil, 0)
	p.Status = domain.StatusCaptured
	payments.Create(p)
	handler := NewCancelPaymentHandler(payments)

	_, err := handler.Handle(context.Background(), CancelPaymentCommand{OrderID: "order_1", PayerID: 10})
	if !apperrors.IsKind(err, apperrors.InvalidState) {
		t.Fatalf("got %v, want InvalidState", err)
	}
}

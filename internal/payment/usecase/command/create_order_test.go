package command

import (
	"context"
	"testing"

	"github.com/learnpay/settlement-engine/internal/payment/domain"
	referraldomain "github.com/learnpay/settlement-engine/internal/referral/domain"
	referralcmd "github.com/learnpay/settlement-engine/internal/referral/usecase/command"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
)

func newOrderFixture() (*CreateOrderHandler, *fakePaymentRepo, *fakePartnerRepo, *fakeGateway) {
	payments := newFakePaymentRepo()
	partners := newFakePartnerRepo()
	gw := &fakeGateway{}
	handler := NewCreateOrderHandler(payments, gw, referralcmd.NewApplyReferralHandler(partners))
	return handler, payments, partners, gw
}

func validOrderCommand() CreateOrderCommand {
	return CreateOrderCommand{
		PayerID:      10,
		CourseID:     20,
		TeacherID:    30,
		UniversityID: 40,
		Amount:       1000,
	}
}

func TestCreateOrderPersistsPendingPayment(t *testing.T) {
	handler, payments, _, gw := newOrderFixture()

	payment, err := handler.Handle(context.Background(), validOrderCommand())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if payment.OrderID != "order_test" {
		t.Errorf("order id: got %s, want order_test", payment.OrderID)
	}
	if payment.Status != domain.StatusPending {
		t.Errorf("status: got %s, want pending", payment.Status)
	}
	if payment.Currency != "INR" {
		t.Errorf("currency default: got %s, want INR", payment.Currency)
	}
	if gw.orders != 1 {
		t.Errorf("gateway orders: got %d, want 1", gw.orders)
	}

	stored, err := payments.FindByOrderID("order_test")
	if err != nil {
		t.Fatalf("stored payment: %v", err)
	}
	if stored.Amount != 1000 || stored.PayerID != 10 {
		t.Errorf("stored payment: amount %d payer %d", stored.Amount, stored.PayerID)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	handler, _, _, gw := newOrderFixture()

	cases := []struct {
		name   string
		mutate func(*CreateOrderCommand)
	}{
		{"zero amount", func(c *CreateOrderCommand) { c.Amount = 0 }},
		{"negative amount", func(c *CreateOrderCommand) { c.Amount = -5 }},
		{"missing payer", func(c *CreateOrderCommand) { c.PayerID = 0 }},
		{"missing course", func(c *CreateOrderCommand) { c.CourseID = 0 }},
		{"missing teacher", func(c *CreateOrderCommand) { c.TeacherID = 0 }},
		{"missing university", func(c *CreateOrderCommand) { c.UniversityID = 0 }},
	}
	for _, tc := range cases {
		cmd := validOrderCommand()
		tc.mutate(&cmd)
		if _, err := handler.Handle(context.Background(), cmd); !apperrors.IsKind(err, apperrors.Validation) {
			t.Errorf("%s: got %v, want Validation", tc.name, err)
		}
	}
	if gw.orders != 0 {
		t.Errorf("gateway orders after rejected commands: got %d, want 0", gw.orders)
	}
}

func TestCreateOrderStampsReferralTerms(t *testing.T) {
	handler, _, partners, _ := newOrderFixture()

	partner := &referraldomain.ReferralPartner{ID: 7, UserID: 70, ReferralCode: "REF-ABC12345", TotalReferrals: 15, IsActive: true}
	partner.Recalculate() // tier2, 2.5%
	partners.Create(partner)

	cmd := validOrderCommand()
	cmd.ReferralCode = "REF-ABC12345"

	payment, err := handler.Handle(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if payment.PartnerID == nil || *payment.PartnerID != 7 {
		t.Fatalf("partner id: got %v, want 7", payment.PartnerID)
	}
	if payment.ReferralRate != 2.5 {
		t.Errorf("referral rate: got %v, want 2.5", payment.ReferralRate)
	}
	if payment.ReferralCommission != 25 {
		t.Errorf("referral commission: got %d, want 25", payment.ReferralCommission)
	}
}

func TestCreateOrderRejectsUnknownReferralCode(t *testing.T) {
	handler, _, _, gw := newOrderFixture()

	cmd := validOrderCommand()
	cmd.ReferralCode = "REF-NOPE"

	if _, err := handler.Handle(context.Background(), cmd); !apperrors.IsKind(err, apperrors.Validation) {
		t.Fatalf("unknown code: got %v, want Validation", err)
	}
	if gw.orders != 0 {
		t.Errorf("gateway orders after rejected referral: got %d, want 0", gw.orders)
	}
}

func TestCreateOrderRejectsInactivePartner(t *testing.T) {
	handler, _, partners, _ := newOrderFixture()

	partner := &referraldomain.ReferralPartner{ID: 8, UserID: 80, ReferralCode: "REF-GONE", IsActive: false}
	partner.Recalculate()
	partners.Create(partner)

	cmd := validOrderCommand()
	cmd.ReferralCode = "REF-GONE"

	if _, err := handler.Handle(context.Background(), cmd); !apperrors.IsKind(err, apperrors.Validation) {
		t.Fatalf("inactive partner: got %v, want Validation", err)
	}
}

package command

import (
	"context"
	"time"

	"github.com/learnpay/settlement-engine/internal/gateway"
	"github.com/learnpay/settlement-engine/internal/payment/domain"
	referralcmd "github.com/learnpay/settlement-engine/internal/referral/usecase/command"
	walletdomain "github.com/learnpay/settlement-engine/internal/wallet/domain"
	walletcmd "github.com/learnpay/settlement-engine/internal/wallet/usecase/command"
	"github.com/learnpay/settlement-engine/pkg/apperrors"
	"github.com/learnpay/settlement-engine/pkg/logger"
	"github.com/learnpay/settlement-engine/pkg/metrics"
)

// CapturePaymentCommand represents the gateway's confirmation of a payment
type CapturePaymentCommand struct {
	OrderID          string
	GatewayPaymentID string
	Signature        string
}

// CapturePaymentHandler handles capture payment command
type CapturePaymentHandler struct {
	repo       domain.PaymentRepository
	gateway    gateway.Gateway
	credit     *walletcmd.CreditWalletHandler
	conversion *referralcmd.RecordConversionHandler
}

// NewCapturePaymentHandler creates a new capture payment handler
func NewCapturePaymentHandler(
	repo domain.PaymentRepository,
	gw gateway.Gateway,
	credit *walletcmd.CreditWalletHandler,
	conversion *referralcmd.RecordConversionHandler,
) *CapturePaymentHandler {
	return &CapturePaymentHandler{repo: repo, gateway: gw, credit: credit, conversion: conversion}
}

// Handle executes the capture payment command. Capturing the same order
// twice is a no-op success: the settlement split is computed and credited
// exactly once, guarded by the persisted settlement_computed flag. A retry
// that finds the payment already captured re-runs only the split legs
// whose settled flag is still false.
func (h *CapturePaymentHandler) Handle(ctx context.Context, cmd CapturePaymentCommand) (*domain.Payment, error) {
	if cmd.OrderID == "" || cmd.GatewayPaymentID == "" || cmd.Signature == "" {
		return nil, apperrors.E(apperrors.Validation, "order_id, payment_id and signature are required")
	}
	if !h.gateway.VerifySignature(cmd.OrderID, cmd.GatewayPaymentID, cmd.Signature) {
		logger.Warn(ctx).
			Str("order_id", cmd.OrderID).
			Str("gateway_payment_id", cmd.GatewayPaymentID).
			Msg("Rejected capture with invalid gateway signature")
		return nil, apperrors.E(apperrors.Signature, "gateway signature mismatch")
	}
	return h.capture(ctx, cmd.OrderID, cmd.GatewayPaymentID, cmd.Signature)
}

// HandleWebhook captures a payment announced by a gateway webhook. The
// caller has already verified the webhook body signature; there is no
// per-payment signature on this path.
func (h *CapturePaymentHandler) HandleWebhook(ctx context.Context, orderID, gatewayPaymentID string) (*domain.Payment, error) {
	if orderID == "" || gatewayPaymentID == "" {
		return nil, apperrors.E(apperrors.Validation, "order_id and payment_id are required")
	}
	return h.capture(ctx, orderID, gatewayPaymentID, "")
}

// VerifyWebhookSignature reports whether a webhook body carries a valid
// gateway signature.
func (h *CapturePaymentHandler) VerifyWebhookSignature(payload []byte, signature string) bool {
	return h.gateway.VerifyWebhookSignature(payload, signature)
}

func (h *CapturePaymentHandler) capture(ctx context.Context, orderID, gatewayPaymentID, signature string) (*domain.Payment, error) {
	payment, err := h.repo.FindByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	switch payment.Status {
	case domain.StatusPending:
		// proceed
	case domain.StatusCaptured:
		// Duplicate delivery. Settle whatever legs a previous attempt
		// left uncredited, then report success.
		h.settleLegs(ctx, payment)
		return h.repo.FindByOrderID(orderID)
	default:
		return nil, apperrors.E(apperrors.InvalidState,
			"payment cannot be captured from status "+payment.Status)
	}

	split := domain.ComputeSplit(payment.Amount, payment.ReferralCommission)

	transitioned, err := h.repo.MarkCaptured(orderID, domain.CaptureUpdate{
		GatewayPaymentID: gatewayPaymentID,
		Signature:        signature,
		CapturedAt:       time.Now(),
		Split:            split,
	})
	if err != nil {
		return nil, err
	}

	fresh, err := h.repo.FindByOrderID(orderID)
	if err != nil {
		return nil, err
	}

	if !transitioned {
		// Lost the race against a concurrent capture or state change.
		if fresh.Status == domain.StatusCaptured {
			h.settleLegs(ctx, fresh)
			return fresh, nil
		}
		return nil, apperrors.E(apperrors.InvalidState,
			"payment cannot be captured from status "+fresh.Status)
	}

	h.settleLegs(ctx, fresh)

	if fresh.PartnerID != nil {
		h.recordFirstPaymentConversion(ctx, fresh)
	}

	metrics.PaymentsCapturedTotal.WithLabelValues(fresh.Currency).Inc()
	metrics.CaptureAmountHistogram.Observe(float64(fresh.Amount))

	logger.Info(ctx).
		Str("order_id", fresh.OrderID).
		Str("gateway_payment_id", gatewayPaymentID).
		Int64("amount", fresh.Amount).
		Int64("platform_amount", split.Platform).
		Int64("teacher_amount", split.Teacher).
		Int64("university_amount", split.University).
		Int64("referral_amount", split.Referral).
		Msg("Payment captured and settlement split computed")

	return h.repo.FindByOrderID(orderID)
}

// settleLegs credits each uncredited split leg to its wallet and flags it
// settled. Legs are independent: one failing leg does not block the
// others, it stays flagged for the next retry.
func (h *CapturePaymentHandler) settleLegs(ctx context.Context, p *domain.Payment) {
	meta := walletdomain.TxnMetadata{PaymentID: p.GatewayPaymentID, CourseID: p.CourseID}

	if p.TeacherAmount > 0 && !p.TeacherSettled {
		h.settleLeg(ctx, p, domain.PartyTeacher, walletcmd.CreditWalletCommand{
			OwnerID:     p.TeacherID,
			OwnerRole:   walletdomain.RoleTeacher,
			Amount:      p.TeacherAmount,
			Currency:    p.Currency,
			Type:        walletdomain.TxnCredit,
			Description: "Course sale revenue share",
			Reference:   p.OrderID,
			Metadata:    meta,
		})
	}

	if p.UniversityAmount > 0 && !p.UniversitySettled {
		h.settleLeg(ctx, p, domain.PartyUniversity, walletcmd.CreditWalletCommand{
			OwnerID:     p.UniversityID,
			OwnerRole:   walletdomain.RoleUniversity,
			Amount:      p.UniversityAmount,
			Currency:    p.Currency,
			Type:        walletdomain.TxnCredit,
			Description: "Course sale revenue share",
			Reference:   p.OrderID,
			Metadata:    meta,
		})
	}

	if p.ReferralAmount > 0 && p.PartnerID != nil && !p.ReferralSettled {
		h.settleLeg(ctx, p, domain.PartyReferral, walletcmd.CreditWalletCommand{
			OwnerID:     *p.PartnerID,
			OwnerRole:   walletdomain.RoleReferralPartner,
			Amount:      p.ReferralAmount,
			Currency:    p.Currency,
			Type:        walletdomain.TxnCommission,
			Description: "Referral commission",
			Reference:   p.OrderID,
			Metadata:    meta,
		})
	}
}

func (h *CapturePaymentHandler) settleLeg(ctx context.Context, p *domain.Payment, party string, cmd walletcmd.CreditWalletCommand) {
	if _, err := h.credit.Handle(cmd); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("order_id", p.OrderID).
			Str("party", party).
			Int64("amount", cmd.Amount).
			Msg("Failed to credit settlement leg")
		return
	}
	if err := h.repo.MarkPartySettled(p.OrderID, party); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("order_id", p.OrderID).
			Str("party", party).
			Msg("Failed to flag settlement leg")
	}
}

// recordFirstPaymentConversion counts the payer toward the partner's
// referral total when this is the payer's first captured referred payment.
// Unreferred purchase history does not block the conversion. Tier changes
// apply to future commissions only.
func (h *CapturePaymentHandler) recordFirstPaymentConversion(ctx context.Context, p *domain.Payment) {
	count, err := h.repo.CountReferredCapturesByPayer(p.PayerID)
	if err != nil {
		logger.Error(ctx).Err(err).
			Str("order_id", p.OrderID).
			Msg("Failed to check payer capture count")
		return
	}
	if count != 1 {
		return
	}

	partner, err := h.conversion.Handle(referralcmd.RecordConversionCommand{PartnerID: *p.PartnerID})
	if err != nil {
		logger.Error(ctx).Err(err).
			Uint("partner_id", *p.PartnerID).
			Msg("Failed to record referral conversion")
		return
	}

	logger.Info(ctx).
		Uint("partner_id", partner.ID).
		Int("total_referrals", partner.TotalReferrals).
		Str("tier", string(partner.Tier)).
		Float64("commission_rate", partner.CommissionRate).
		Msg("Referral conversion recorded")
}

package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/razorpay/razorpay-go"

	"github.com/learnpay/settlement-engine/pkg/logger"
)

// RazorpayGateway implements Gateway using the Razorpay REST client.
type RazorpayGateway struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
}

// NewRazorpayGateway creates a new Razorpay gateway adapter
func NewRazorpayGateway(keyID, keySecret, webhookSecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:        razorpay.NewClient(keyID, keySecret),
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

// CreateOrder registers an order with Razorpay. amountMinor is in paise.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	resp, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create razorpay order: %w", err)
	}

	orderID, ok := resp["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("razorpay order response missing id")
	}

	logger.Info(ctx).
		Str("order_id", orderID).
		Int64("amount_minor", amountMinor).
		Str("currency", currency).
		Msg("Razorpay order created")

	return orderID, nil
}

// VerifySignature checks the checkout signature: HMAC-SHA256 over
// "orderID|paymentID" keyed with the API secret, hex encoded.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	// Constant-time comparison
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks the webhook signature over the raw body,
// keyed with the webhook secret.
func (g *RazorpayGateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Refund initiates a refund for a captured payment. amountMinor is in paise.
func (g *RazorpayGateway) Refund(ctx context.Context, paymentID string, amountMinor int64, reason string) (string, error) {
	data := map[string]interface{}{
		"notes": map[string]interface{}{
			"reason": reason,
		},
	}

	resp, err := g.client.Payment.Refund(paymentID, int(amountMinor), data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to refund razorpay payment: %w", err)
	}

	refundID, ok := resp["id"].(string)
	if !ok || refundID == "" {
		return "", fmt.Errorf("razorpay refund response missing id")
	}

	logger.Info(ctx).
		Str("payment_id", paymentID).
		Str("refund_id", refundID).
		Int64("amount_minor", amountMinor).
		Msg("Razorpay refund initiated")

	return refundID, nil
}

package gateway

import "context"

// Gateway abstracts the external payment gateway. Amounts cross this
// boundary in minor currency units (paise for INR).
type Gateway interface {
	// CreateOrder registers an order with the gateway and returns the
	// gateway-assigned order id.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)

	// VerifySignature checks the gateway signature over "orderID|paymentID".
	VerifySignature(orderID, paymentID, signature string) bool

	// VerifyWebhookSignature checks the signature over a raw webhook body.
	VerifyWebhookSignature(payload []byte, signature string) bool

	// Refund initiates a refund for a captured payment and returns the
	// gateway refund id.
	Refund(ctx context.Context, paymentID string, amountMinor int64, reason string) (string, error)
}

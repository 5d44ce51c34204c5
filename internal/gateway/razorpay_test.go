package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	g := NewRazorpayGateway("key_id", "key_secret", "webhook_secret")

	orderID := "order_AB12cd34EF56gh"
	paymentID := "pay_XY98zw76VU54ts"
	good := sign("key_secret", []byte(orderID+"|"+paymentID))

	if !g.VerifySignature(orderID, paymentID, good) {
		t.Error("valid signature rejected")
	}
	if g.VerifySignature(orderID, paymentID, "") {
		t.Error("empty signature accepted")
	}
	if g.VerifySignature(orderID, "pay_other", good) {
		t.Error("signature accepted for a different payment")
	}

	// Flip one hex digit.
	corrupted := []byte(good)
	if corrupted[0] == 'a' {
		corrupted[0] = 'b'
	} else {
		corrupted[0] = 'a'
	}
	if g.VerifySignature(orderID, paymentID, string(corrupted)) {
		t.Error("corrupted signature accepted")
	}

	// Signed with the wrong secret.
	wrongKey := sign("other_secret", []byte(orderID+"|"+paymentID))
	if g.VerifySignature(orderID, paymentID, wrongKey) {
		t.Error("signature from wrong secret accepted")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	g := NewRazorpayGateway("key_id", "key_secret", "webhook_secret")

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1"}}}}`)
	good := sign("webhook_secret", body)

	if !g.VerifyWebhookSignature(body, good) {
		t.Error("valid webhook signature rejected")
	}
	if g.VerifyWebhookSignature(body, sign("key_secret", body)) {
		t.Error("webhook signature keyed with API secret accepted")
	}
	if g.VerifyWebhookSignature([]byte(`{"event":"tampered"}`), good) {
		t.Error("signature accepted for a tampered body")
	}
}

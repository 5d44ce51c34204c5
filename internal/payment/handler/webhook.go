package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/learnpay/settlement-engine/internal/payment/usecase/command"
	"github.com/learnpay/settlement-engine/pkg/logger"
)

// webhookDedupeTTL bounds how long a delivered webhook event id is
// remembered. Razorpay retries for at most 24 hours.
const webhookDedupeTTL = 48 * time.Hour

// eventDeduper remembers delivered webhook event ids so retries of an
// already-processed event are answered without reprocessing. A claim taken
// for an event whose processing then fails must be released; otherwise
// every retry within the dedupe window would be swallowed and the event
// lost.
type eventDeduper interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string)
}

type redisDeduper struct {
	client *redis.Client
}

func (d *redisDeduper) Claim(ctx context.Context, eventID string) (bool, error) {
	return d.client.SetNX(ctx, "webhook:"+eventID, 1, webhookDedupeTTL).Result()
}

func (d *redisDeduper) Release(ctx context.Context, eventID string) {
	if err := d.client.Del(ctx, "webhook:"+eventID).Err(); err != nil {
		logger.Warn(ctx).Err(err).
			Str("event_id", eventID).
			Msg("Failed to release webhook event id")
	}
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID               string `json:"id"`
				OrderID          string `json:"order_id"`
				ErrorDescription string `json:"error_description"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Webhook handles POST /api/payments/webhook. The gateway signs the raw
// body; a request that fails verification is rejected before any parsing
// of its contents is acted on.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Failed to read request body",
		})
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !h.captureHandler.VerifyWebhookSignature(body, signature) {
		logger.Warn(ctx).
			Str("remote_addr", r.RemoteAddr).
			Msg("Rejected webhook with invalid signature")
		respondJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "Invalid webhook signature",
		})
		return
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid webhook payload",
		})
		return
	}

	// Best-effort duplicate suppression. The status-guarded transitions
	// below remain the authority when Redis is unavailable. The claim is
	// released when processing fails, so the gateway's retries are not
	// silenced by a transient error.
	eventID := r.Header.Get("X-Razorpay-Event-Id")
	claimed := false
	if eventID != "" && h.dedupe != nil {
		fresh, err := h.dedupe.Claim(ctx, eventID)
		if err != nil {
			logger.Warn(ctx).Err(err).
				Str("event_id", eventID).
				Msg("Webhook dedupe check unavailable")
		} else if !fresh {
			logger.Info(ctx).
				Str("event_id", eventID).
				Str("event", envelope.Event).
				Msg("Duplicate webhook delivery ignored")
			respondJSON(w, http.StatusOK, Response{
				Success: true,
				Message: "Event already processed",
			})
			return
		} else {
			claimed = true
		}
	}

	entity := envelope.Payload.Payment.Entity

	switch envelope.Event {
	case "payment.captured":
		payment, err := h.captureHandler.HandleWebhook(ctx, entity.OrderID, entity.ID)
		if err != nil {
			logger.Error(ctx).Err(err).
				Str("order_id", entity.OrderID).
				Str("event", envelope.Event).
				Msg("Failed to process captured webhook")
			h.releaseWebhookClaim(ctx, eventID, claimed)
			respondError(w, err)
			return
		}
		h.publishCaptured(r, payment)

	case "payment.failed":
		payment, err := h.markFailedHandler.Handle(ctx, command.MarkFailedCommand{
			OrderID: entity.OrderID,
			Reason:  entity.ErrorDescription,
		})
		if err != nil {
			logger.Error(ctx).Err(err).
				Str("order_id", entity.OrderID).
				Str("event", envelope.Event).
				Msg("Failed to process failed webhook")
			h.releaseWebhookClaim(ctx, eventID, claimed)
			respondError(w, err)
			return
		}
		h.publishFailed(r, payment)

	default:
		logger.Debug(ctx).
			Str("event", envelope.Event).
			Msg("Ignoring unhandled webhook event")
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Webhook processed",
	})
}

func (h *PaymentHandler) releaseWebhookClaim(ctx context.Context, eventID string, claimed bool) {
	if claimed && h.dedupe != nil {
		h.dedupe.Release(ctx, eventID)
	}
}

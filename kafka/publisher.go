package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/learnpay/settlement-engine/pkg/logger"
)

// Publisher wraps Kafka producer
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{
		producer: producer,
		brokers:  brokers,
	}, nil
}

// PublishPaymentCaptured publishes a payment captured event with tracing
func (p *Publisher) PublishPaymentCaptured(ctx context.Context, event PaymentCapturedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.payment_captured",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicPaymentCaptured),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypePaymentCaptured),
			attribute.String("order.id", event.OrderID),
			attribute.Int64("payment.amount", event.Amount),
		),
	)
	defer span.End()

	event.EventType = EventTypePaymentCaptured
	return p.publish(ctx, span, TopicPaymentCaptured, event.EventType, &event.EventID, &event.Timestamp, "order_"+event.OrderID, event)
}

// PublishPaymentRefunded publishes a payment refunded event with tracing
func (p *Publisher) PublishPaymentRefunded(ctx context.Context, event PaymentRefundedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.payment_refunded",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicPaymentRefunded),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypePaymentRefunded),
			attribute.String("order.id", event.OrderID),
			attribute.Int64("refund.amount", event.Amount),
		),
	)
	defer span.End()

	event.EventType = EventTypePaymentRefunded
	return p.publish(ctx, span, TopicPaymentRefunded, event.EventType, &event.EventID, &event.Timestamp, "order_"+event.OrderID, event)
}

// PublishPaymentFailed publishes a payment failed event with tracing
func (p *Publisher) PublishPaymentFailed(ctx context.Context, event PaymentFailedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.payment_failed",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicPaymentFailed),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypePaymentFailed),
			attribute.String("order.id", event.OrderID),
		),
	)
	defer span.End()

	event.EventType = EventTypePaymentFailed
	return p.publish(ctx, span, TopicPaymentFailed, event.EventType, &event.EventID, &event.Timestamp, "order_"+event.OrderID, event)
}

// PublishSettlementProcessed publishes a settlement processed event with tracing
func (p *Publisher) PublishSettlementProcessed(ctx context.Context, event SettlementProcessedEvent) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish.settlement_processed",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicSettlementProcessed),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", EventTypeSettlementProcessed),
			attribute.Int64("settlement.id", int64(event.SettlementID)),
			attribute.String("settlement.status", event.Status),
		),
	)
	defer span.End()

	event.EventType = EventTypeSettlementProcessed
	key := fmt.Sprintf("wallet_%d", event.WalletID)
	return p.publish(ctx, span, TopicSettlementProcessed, event.EventType, &event.EventID, &event.Timestamp, key, event)
}

func (p *Publisher) publish(ctx context.Context, span trace.Span, topic, eventType string, eventID *string, timestamp *time.Time, key string, event interface{}) error {
	if *eventID == "" {
		*eventID = fmt.Sprintf("evt_%d", time.Now().UnixNano())
	}
	*timestamp = time.Now()

	span.SetAttributes(attribute.String("event.id", *eventID))

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Inject trace context into Kafka headers
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{
			Key:   []byte("event_type"),
			Value: []byte(eventType),
		},
		{
			Key:   []byte("event_id"),
			Value: []byte(*eventID),
		},
	}
	for hk, hv := range carrier {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte(hk),
			Value: []byte(hv),
		})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", topic).
			Str("event_id", *eventID).
			Str("trace_id", span.SpanContext().TraceID().String()).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published successfully")

	logger.Logger.Info().
		Str("event_id", *eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("trace_id", span.SpanContext().TraceID().String()).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

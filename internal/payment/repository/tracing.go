package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/learnpay/settlement-engine/internal/payment/domain"
)

var tracer = otel.Tracer("payment-repository")

// GormPaymentRepositoryWithTracing wraps GormPaymentRepository with tracing
// on the hot capture-path operations.
type GormPaymentRepositoryWithTracing struct {
	*GormPaymentRepository
}

// NewGormPaymentRepositoryWithTracing creates a new repository with tracing
func NewGormPaymentRepositoryWithTracing(db *gorm.DB) *GormPaymentRepositoryWithTracing {
	return &GormPaymentRepositoryWithTracing{
		GormPaymentRepository: NewGormPaymentRepository(db),
	}
}

// FindByOrderIDWithContext looks up a payment with tracing
func (r *GormPaymentRepositoryWithTracing) FindByOrderIDWithContext(ctx context.Context, orderID string) (*domain.Payment, error) {
	_, span := tracer.Start(ctx, "repository.FindByOrderID",
		trace.WithAttributes(
			attribute.String("payment.order_id", orderID),
		),
	)
	defer span.End()

	payment, err := r.GormPaymentRepository.FindByOrderID(orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("payment.status", payment.Status))
	return payment, nil
}

// MarkCapturedWithContext performs the guarded capture transition with tracing
func (r *GormPaymentRepositoryWithTracing) MarkCapturedWithContext(ctx context.Context, orderID string, update domain.CaptureUpdate) (bool, error) {
	_, span := tracer.Start(ctx, "repository.MarkCaptured",
		trace.WithAttributes(
			attribute.String("payment.order_id", orderID),
			attribute.String("payment.gateway_payment_id", update.GatewayPaymentID),
		),
	)
	defer span.End()

	transitioned, err := r.GormPaymentRepository.MarkCaptured(orderID, update)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("payment.transitioned", transitioned))
	return transitioned, nil
}

//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/learnpay/settlement-engine/internal/gateway"
	"github.com/learnpay/settlement-engine/internal/payment/domain"
	"github.com/learnpay/settlement-engine/internal/payment/handler"
	"github.com/learnpay/settlement-engine/internal/payment/repository"
	"github.com/learnpay/settlement-engine/internal/payment/usecase/command"
	"github.com/learnpay/settlement-engine/internal/payment/usecase/query"
	"github.com/learnpay/settlement-engine/internal/referral"
	"github.com/learnpay/settlement-engine/internal/wallet"
	"github.com/learnpay/settlement-engine/kafka"
)

// ProvidePaymentRepository provides the payment repository with tracing
func ProvidePaymentRepository(db *gorm.DB) domain.PaymentRepository {
	return repository.NewGormPaymentRepositoryWithTracing(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePaymentRepository,
)

var CommandHandlerSet = wire.NewSet(
	command.NewCreateOrderHandler,
	command.NewCapturePaymentHandler,
	command.NewMarkFailedHandler,
	command.NewRefundPaymentHandler,
	command.NewCancelPaymentHandler,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetPaymentHandler,
	query.NewListPaymentsHandler,
	query.NewGetMyPaymentsHandler,
)

// CollaboratorSet pulls in the wallet crediting and referral commands the
// capture flow depends on.
var CollaboratorSet = wire.NewSet(
	wallet.ProvideWalletRepository,
	wallet.ProvideCreditWalletHandler,
	referral.ProvidePartnerRepository,
	referral.ProvideApplyReferralHandler,
	referral.ProvideRecordConversionHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
	CollaboratorSet,
)

// InitializeHandler initializes payment handler with all dependencies
func InitializeHandler(db *gorm.DB, gw gateway.Gateway, publisher *kafka.Publisher, redisClient *redis.Client) (*handler.PaymentHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewPaymentHandlerWithDI,
	)
	return nil, nil
}

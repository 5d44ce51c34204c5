//go:build wireinject
// +build wireinject

package wallet

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/learnpay/settlement-engine/internal/wallet/domain"
	"github.com/learnpay/settlement-engine/internal/wallet/handler"
	"github.com/learnpay/settlement-engine/internal/wallet/repository"
	"github.com/learnpay/settlement-engine/internal/wallet/usecase/command"
	"github.com/learnpay/settlement-engine/internal/wallet/usecase/query"
	"github.com/learnpay/settlement-engine/kafka"
)

// ProvideWalletRepository provides the wallet repository
func ProvideWalletRepository(db *gorm.DB) domain.WalletRepository {
	return repository.NewGormWalletRepository(db)
}

// ProvideCreditWalletHandler provides the credit wallet handler. It is not
// part of CommandHandlerSet: the wallet HTTP handler never credits, only the
// payment capture flow does, which pulls this provider in directly.
func ProvideCreditWalletHandler(repo domain.WalletRepository) *command.CreditWalletHandler {
	return command.NewCreditWalletHandler(repo)
}

// Command Handlers Providers
func ProvideRequestSettlementHandler(repo domain.WalletRepository) *command.RequestSettlementHandler {
	return command.NewRequestSettlementHandler(repo)
}

func ProvideProcessSettlementHandler(repo domain.WalletRepository) *command.ProcessSettlementHandler {
	return command.NewProcessSettlementHandler(repo)
}

// Query Handlers Providers
func ProvideGetWalletHandler(repo domain.WalletRepository) *query.GetWalletHandler {
	return query.NewGetWalletHandler(repo)
}

func ProvideListTransactionsHandler(repo domain.WalletRepository) *query.ListTransactionsHandler {
	return query.NewListTransactionsHandler(repo)
}

func ProvideListSettlementsHandler(repo domain.WalletRepository) *query.ListSettlementsHandler {
	return query.NewListSettlementsHandler(repo)
}

func ProvideListPendingSettlementsHandler(repo domain.WalletRepository) *query.ListPendingSettlementsHandler {
	return query.NewListPendingSettlementsHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideWalletRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideRequestSettlementHandler,
	ProvideProcessSettlementHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetWalletHandler,
	ProvideListTransactionsHandler,
	ProvideListSettlementsHandler,
	ProvideListPendingSettlementsHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes wallet handler with all dependencies
func InitializeHandler(db *gorm.DB, publisher *kafka.Publisher) (*handler.WalletHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewWalletHandlerWithDI,
	)
	return nil, nil
}

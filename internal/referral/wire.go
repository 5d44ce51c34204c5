//go:build wireinject
// +build wireinject

package referral

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/learnpay/settlement-engine/internal/referral/domain"
	"github.com/learnpay/settlement-engine/internal/referral/handler"
	"github.com/learnpay/settlement-engine/internal/referral/repository"
	"github.com/learnpay/settlement-engine/internal/referral/usecase/command"
	"github.com/learnpay/settlement-engine/internal/referral/usecase/query"
)

// ProvidePartnerRepository provides the referral partner repository
func ProvidePartnerRepository(db *gorm.DB) domain.PartnerRepository {
	return repository.NewGormPartnerRepository(db)
}

// Command Handlers Providers
func ProvideRegisterPartnerHandler(repo domain.PartnerRepository) *command.RegisterPartnerHandler {
	return command.NewRegisterPartnerHandler(repo)
}

func ProvideApplyReferralHandler(repo domain.PartnerRepository) *command.ApplyReferralHandler {
	return command.NewApplyReferralHandler(repo)
}

// ProvideRecordConversionHandler provides the record conversion handler. It
// is not part of CommandHandlerSet: conversions are recorded by the payment
// capture flow, which pulls this provider in directly.
func ProvideRecordConversionHandler(repo domain.PartnerRepository) *command.RecordConversionHandler {
	return command.NewRecordConversionHandler(repo)
}

// Query Handlers Providers
func ProvideGetPartnerHandler(repo domain.PartnerRepository) *query.GetPartnerHandler {
	return query.NewGetPartnerHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvidePartnerRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideRegisterPartnerHandler,
	ProvideApplyReferralHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetPartnerHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes referral handler with all dependencies
func InitializeHandler(db *gorm.DB) (*handler.ReferralHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewReferralHandlerWithDI,
	)
	return nil, nil
}

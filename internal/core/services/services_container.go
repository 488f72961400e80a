package services

import (
	portsevents "github.com/SscSPs/balance_updater/internal/core/ports/events"
	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/balance_updater/internal/core/ports/services"
	"github.com/SscSPs/balance_updater/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher portsevents.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Balance = NewBalanceService(
		repos.BalanceRepo,
		cfg.AccountName,
		WithLocation(cfg.Location),
		WithOperationTimeout(cfg.DBOperationTimeout),
		WithEventPublisher(publisher),
	)

	container.Auth = NewOperatorAuthService(cfg)
	container.Google = NewGoogleOAuthService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.BalanceSvcFacade = (*balanceService)(nil)
	_ portssvc.OperatorAuthSvc  = (*operatorAuthService)(nil)
	_ portssvc.GoogleOAuthSvc   = (*googleOAuthService)(nil)
)

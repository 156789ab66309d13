package services

import (
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	portssvc "github.com/coinadmin/backend/internal/core/ports/services"
)

// NewServiceContainer wires all services with their repository dependencies.
// Cache and publisher may be nil when redis/NATS are not configured.
func NewServiceContainer(
	repos *portsrepo.RepositoryProvider,
	cache portsrepo.NetworkCache,
	publisher portsrepo.LedgerEventPublisher,
	authCfg AuthConfig,
) *portssvc.ServiceContainer {
	balance := NewBalanceService(repos.UserRepo, repos.TransactionRepo, cache, publisher)
	referral := NewReferralService(repos.UserRepo, repos.ReportingRepo, cache)

	return &portssvc.ServiceContainer{
		Auth:      NewAuthService(repos.AdminRepo, authCfg),
		User:      NewUserService(repos.UserRepo, referral, balance),
		Balance:   balance,
		Referral:  referral,
		Reporting: NewReportingService(repos.ReportingRepo, repos.TransactionRepo),
	}
}

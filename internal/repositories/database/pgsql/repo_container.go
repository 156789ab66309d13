package pgsql

import (
	portsrepo "github.com/coinadmin/backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates all pgsql repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		UserRepo:        newPgxUserRepository(pool),
		TransactionRepo: newPgxTransactionRepository(pool),
		AdminRepo:       newPgxAdminRepository(pool),
		ReportingRepo:   newPgxReportingRepository(pool),
	}
}

package pgsql

import (
	portsrepo "github.com/SscSPs/balance_updater/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	balanceRepo := newPgxBalanceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		BalanceRepo: balanceRepo,
		Health:      balanceRepo,
		Close:       dbPool.Close,
	}
}

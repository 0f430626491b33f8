package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/doceria/erp_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		CustomerRepo:   newPgxCustomerRepository(pool),
		ObligationRepo: newPgxObligationRepository(pool),
		LedgerRepo:     newPgxLedgerRepository(pool),
	}
}

package pgsql

import (
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository over the shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(pool),
		JournalRepo:     newPgxJournalRepository(pool),
		CashBoxRepo:     newPgxCashBoxRepository(pool),
		ReservationRepo: newPgxReservationRepository(pool),
		TripBookingRepo: newPgxTripBookingRepository(pool),
		SequenceRepo:    newPgxSequenceRepository(pool),
		AuditRepo:       newPgxAuditRepository(pool),
	}
}

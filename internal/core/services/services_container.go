package services

import (
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, enqueuer portssvc.TaskEnqueuer) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first; every other service records through it
	container.Audit = NewAuditService(repos.AuditRepo)

	container.Account = NewAccountService(repos.AccountRepo, repos.SequenceRepo, container.Audit)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.SequenceRepo, container.Audit, cfg.Posting)
	container.CashBox = NewCashBoxService(repos.CashBoxRepo, repos.SequenceRepo, container.Journal, container.Audit, enqueuer, cfg.HomeCurrency)
	container.Reservation = NewReservationService(repos.ReservationRepo, repos.SequenceRepo, container.CashBox, container.Journal, container.Audit)
	container.TripBooking = NewTripBookingService(repos.TripBookingRepo, repos.SequenceRepo, container.CashBox, container.Journal, container.Audit)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade     = (*accountService)(nil)
	_ portssvc.JournalSvcFacade     = (*journalService)(nil)
	_ portssvc.CashBoxSvcFacade     = (*cashBoxService)(nil)
	_ portssvc.ReservationSvcFacade = (*reservationService)(nil)
	_ portssvc.TripBookingSvcFacade = (*tripBookingService)(nil)
	_ portssvc.AuditSvcFacade       = (*auditService)(nil)
)

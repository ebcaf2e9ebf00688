package services

// ServiceContainer holds all the service facades used by the handlers
// and the background worker.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Journal     JournalSvcFacade
	CashBox     CashBoxSvcFacade
	Reservation ReservationSvcFacade
	TripBooking TripBookingSvcFacade
	Audit       AuditSvcFacade
}

package repositories

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
)

// BookingListFilter narrows reservation and trip booking listings.
type BookingListFilter struct {
	Status *domain.BookingStatus
	Limit  int
	Offset int
}

// ReservationRepositoryFacade defines persistence operations for reservations.
type ReservationRepositoryFacade interface {
	SaveReservation(ctx context.Context, r *domain.Reservation) error
	FindReservationByID(ctx context.Context, reservationID int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context, filter BookingListFilter) ([]domain.Reservation, error)
	UpdateReservation(ctx context.Context, r domain.Reservation) error
	DeleteReservation(ctx context.Context, reservationID int64) error
}

// TripBookingRepositoryFacade defines persistence operations for trip bookings.
type TripBookingRepositoryFacade interface {
	SaveTripBooking(ctx context.Context, b *domain.TripBooking) error
	FindTripBookingByID(ctx context.Context, tripBookingID int64) (*domain.TripBooking, error)
	ListTripBookings(ctx context.Context, filter BookingListFilter) ([]domain.TripBooking, error)
	UpdateTripBooking(ctx context.Context, b domain.TripBooking) error
	DeleteTripBooking(ctx context.Context, tripBookingID int64) error
}

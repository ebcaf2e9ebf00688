package services

import (
	"context"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

// ReservationSvcFacade defines operations for service reservations.
type ReservationSvcFacade interface {
	CreateReservation(ctx context.Context, req dto.CreateReservationRequest, userID string) (*domain.Reservation, error)
	GetReservationByID(ctx context.Context, reservationID int64) (*domain.Reservation, error)
	ListReservations(ctx context.Context, filter repositories.BookingListFilter) ([]domain.Reservation, error)
	UpdateReservation(ctx context.Context, reservationID int64, req dto.UpdateReservationRequest, userID string) (*domain.Reservation, error)

	// ChangeReservationStatus moves a reservation through its lifecycle,
	// recording payment and revenue on confirmation and reversing them on
	// cancellation.
	ChangeReservationStatus(ctx context.Context, reservationID int64, req dto.ChangeStatusRequest, userID string) (*domain.Reservation, error)

	// DeleteReservation removes a reservation that is Draft or Cancelled.
	DeleteReservation(ctx context.Context, reservationID int64, userID string) error
}

// TripBookingSvcFacade defines operations for group trip bookings.
type TripBookingSvcFacade interface {
	CreateTripBooking(ctx context.Context, req dto.CreateTripBookingRequest, userID string) (*domain.TripBooking, error)
	GetTripBookingByID(ctx context.Context, tripBookingID int64) (*domain.TripBooking, error)
	ListTripBookings(ctx context.Context, filter repositories.BookingListFilter) ([]domain.TripBooking, error)
	UpdateTripBooking(ctx context.Context, tripBookingID int64, req dto.UpdateTripBookingRequest, userID string) (*domain.TripBooking, error)

	// ChangeTripBookingStatus moves a booking through its lifecycle with the
	// same side effects as reservations.
	ChangeTripBookingStatus(ctx context.Context, tripBookingID int64, req dto.ChangeStatusRequest, userID string) (*domain.TripBooking, error)

	// DeleteTripBooking removes a booking that is Draft or Cancelled.
	DeleteTripBooking(ctx context.Context, tripBookingID int64, userID string) error
}

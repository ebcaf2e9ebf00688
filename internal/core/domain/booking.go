package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the shared state machine for reservations and trip
// bookings: Draft -> Confirmed -> Completed, with Cancelled reachable from
// Draft or Confirmed. Completed and Cancelled are terminal.
type BookingStatus string

const (
	StatusDraft     BookingStatus = "Draft"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCompleted BookingStatus = "Completed"
	StatusCancelled BookingStatus = "Cancelled"
)

var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusDraft:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// IsValid reports whether s is one of the known statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted from s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the transition s -> next is permitted.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation is a service booking (hotel, visa, transfer, ...) that owns at
// most one live cash transaction, created on confirmation and deleted on
// cancellation.
type Reservation struct {
	ReservationID     int64           `json:"reservationID"`
	ReservationNumber string          `json:"reservationNumber"`
	CustomerName      string          `json:"customerName"`
	ServiceType       string          `json:"serviceType"`
	ReservationDate   time.Time       `json:"reservationDate"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	CostPrice         decimal.Decimal `json:"costPrice"`
	Status            BookingStatus   `json:"status"`
	CashBoxID         *int64          `json:"cashBoxID"`
	CashTransactionID *int64          `json:"cashTransactionID"`
	Notes             string          `json:"notes"`
	AuditFields
}

// TripBooking is a seat booking on an organized trip; same lifecycle and
// cash-transaction linkage as Reservation.
type TripBooking struct {
	TripBookingID     int64           `json:"tripBookingID"`
	BookingNumber     string          `json:"bookingNumber"`
	TripName          string          `json:"tripName"`
	CustomerName      string          `json:"customerName"`
	BookingDate       time.Time       `json:"bookingDate"`
	Seats             int             `json:"seats"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Status            BookingStatus   `json:"status"`
	CashBoxID         *int64          `json:"cashBoxID"`
	CashTransactionID *int64          `json:"cashTransactionID"`
	Notes             string          `json:"notes"`
	AuditFields
}

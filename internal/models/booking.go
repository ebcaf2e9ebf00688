package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reservation is the reservations table row.
type Reservation struct {
	ReservationID     int64           `db:"reservation_id"`
	ReservationNumber string          `db:"reservation_number"`
	CustomerName      string          `db:"customer_name"`
	ServiceType       string          `db:"service_type"`
	ReservationDate   time.Time       `db:"reservation_date"`
	SellingPrice      decimal.Decimal `db:"selling_price"`
	CostPrice         decimal.Decimal `db:"cost_price"`
	Status            string          `db:"status"`
	CashBoxID         *int64          `db:"cash_box_id"`
	CashTransactionID *int64          `db:"cash_transaction_id"`
	Notes             string          `db:"notes"`
	AuditFields
}

// TripBooking is the trip_bookings table row.
type TripBooking struct {
	TripBookingID     int64           `db:"trip_booking_id"`
	BookingNumber     string          `db:"booking_number"`
	TripName          string          `db:"trip_name"`
	CustomerName      string          `db:"customer_name"`
	BookingDate       time.Time       `db:"booking_date"`
	Seats             int             `db:"seats"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	Status            string          `db:"status"`
	CashBoxID         *int64          `db:"cash_box_id"`
	CashTransactionID *int64          `db:"cash_transaction_id"`
	Notes             string          `db:"notes"`
	AuditFields
}

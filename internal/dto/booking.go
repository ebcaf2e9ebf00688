package dto

import (
	"time"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateReservationRequest defines the data needed to create a reservation.
// New reservations always start in Draft.
type CreateReservationRequest struct {
	CustomerName    string          `json:"customerName" binding:"required"`
	ServiceType     string          `json:"serviceType" binding:"required"`
	ReservationDate time.Time       `json:"reservationDate" binding:"required"`
	SellingPrice    decimal.Decimal `json:"sellingPrice" binding:"required"`
	CostPrice       decimal.Decimal `json:"costPrice"`
	Notes           string          `json:"notes"`
}

// UpdateReservationRequest defines the fields a reservation allows changing.
// Terminal reservations reject updates.
type UpdateReservationRequest struct {
	CustomerName    *string          `json:"customerName"`
	ServiceType     *string          `json:"serviceType"`
	ReservationDate *time.Time       `json:"reservationDate"`
	SellingPrice    *decimal.Decimal `json:"sellingPrice"`
	CostPrice       *decimal.Decimal `json:"costPrice"`
	Notes           *string          `json:"notes"`
}

// CreateTripBookingRequest defines the data needed to create a trip booking.
type CreateTripBookingRequest struct {
	TripName     string          `json:"tripName" binding:"required"`
	CustomerName string          `json:"customerName" binding:"required"`
	BookingDate  time.Time       `json:"bookingDate" binding:"required"`
	Seats        int             `json:"seats" binding:"required,min=1"`
	TotalAmount  decimal.Decimal `json:"totalAmount" binding:"required"`
	Notes        string          `json:"notes"`
}

// UpdateTripBookingRequest defines the fields a trip booking allows changing.
type UpdateTripBookingRequest struct {
	TripName     *string          `json:"tripName"`
	CustomerName *string          `json:"customerName"`
	BookingDate  *time.Time       `json:"bookingDate"`
	Seats        *int             `json:"seats"`
	TotalAmount  *decimal.Decimal `json:"totalAmount"`
	Notes        *string          `json:"notes"`
}

// ChangeStatusRequest moves a reservation or trip booking through its
// lifecycle. CashBoxID and PaymentMethod are required when confirming
// with payment collection; they are ignored otherwise.
type ChangeStatusRequest struct {
	Status             domain.BookingStatus `json:"status" binding:"required,oneof=Draft Confirmed Completed Cancelled"`
	CashBoxID          *int64               `json:"cashBoxID"`
	PaymentMethod      domain.PaymentMethod `json:"paymentMethod"`
	InstaPayCommission *decimal.Decimal     `json:"instaPayCommission"`
}

// ListBookingsParams defines query parameters for listing reservations
// and trip bookings.
type ListBookingsParams struct {
	Status string `form:"status"`
	Limit  int    `form:"limit,default=50"`
	Offset int    `form:"offset,default=0"`
}

// ReservationResponse defines the data returned for a reservation.
type ReservationResponse struct {
	ReservationID     int64                `json:"reservationID"`
	ReservationNumber string               `json:"reservationNumber"`
	CustomerName      string               `json:"customerName"`
	ServiceType       string               `json:"serviceType"`
	ReservationDate   time.Time            `json:"reservationDate"`
	SellingPrice      decimal.Decimal      `json:"sellingPrice"`
	CostPrice         decimal.Decimal      `json:"costPrice"`
	Status            domain.BookingStatus `json:"status"`
	CashBoxID         *int64               `json:"cashBoxID,omitempty"`
	CashTransactionID *int64               `json:"cashTransactionID,omitempty"`
	Notes             string               `json:"notes"`
	CreatedAt         time.Time            `json:"createdAt"`
	CreatedBy         string               `json:"createdBy"`
	LastUpdatedAt     time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy     string               `json:"lastUpdatedBy"`
}

// TripBookingResponse defines the data returned for a trip booking.
type TripBookingResponse struct {
	TripBookingID     int64                `json:"tripBookingID"`
	BookingNumber     string               `json:"bookingNumber"`
	TripName          string               `json:"tripName"`
	CustomerName      string               `json:"customerName"`
	BookingDate       time.Time            `json:"bookingDate"`
	Seats             int                  `json:"seats"`
	TotalAmount       decimal.Decimal      `json:"totalAmount"`
	Status            domain.BookingStatus `json:"status"`
	CashBoxID         *int64               `json:"cashBoxID,omitempty"`
	CashTransactionID *int64               `json:"cashTransactionID,omitempty"`
	Notes             string               `json:"notes"`
	CreatedAt         time.Time            `json:"createdAt"`
	CreatedBy         string               `json:"createdBy"`
	LastUpdatedAt     time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy     string               `json:"lastUpdatedBy"`
}

// ToReservationResponse converts a domain.Reservation to its DTO.
func ToReservationResponse(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ReservationID:     r.ReservationID,
		ReservationNumber: r.ReservationNumber,
		CustomerName:      r.CustomerName,
		ServiceType:       r.ServiceType,
		ReservationDate:   r.ReservationDate,
		SellingPrice:      r.SellingPrice,
		CostPrice:         r.CostPrice,
		Status:            r.Status,
		CashBoxID:         r.CashBoxID,
		CashTransactionID: r.CashTransactionID,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
		CreatedBy:         r.CreatedBy,
		LastUpdatedAt:     r.LastUpdatedAt,
		LastUpdatedBy:     r.LastUpdatedBy,
	}
}

// ToListReservationResponse converts a slice of reservations.
func ToListReservationResponse(rs []domain.Reservation) []ReservationResponse {
	res := make([]ReservationResponse, len(rs))
	for i := range rs {
		res[i] = ToReservationResponse(&rs[i])
	}
	return res
}

// ToTripBookingResponse converts a domain.TripBooking to its DTO.
func ToTripBookingResponse(b *domain.TripBooking) TripBookingResponse {
	return TripBookingResponse{
		TripBookingID:     b.TripBookingID,
		BookingNumber:     b.BookingNumber,
		TripName:          b.TripName,
		CustomerName:      b.CustomerName,
		BookingDate:       b.BookingDate,
		Seats:             b.Seats,
		TotalAmount:       b.TotalAmount,
		Status:            b.Status,
		CashBoxID:         b.CashBoxID,
		CashTransactionID: b.CashTransactionID,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		CreatedBy:         b.CreatedBy,
		LastUpdatedAt:     b.LastUpdatedAt,
		LastUpdatedBy:     b.LastUpdatedBy,
	}
}

// ToListTripBookingResponse converts a slice of trip bookings.
func ToListTripBookingResponse(bs []domain.TripBooking) []TripBookingResponse {
	res := make([]TripBookingResponse, len(bs))
	for i := range bs {
		res[i] = ToTripBookingResponse(&bs[i])
	}
	return res
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/atlas-voyages/accounting-backend/internal/apperrors"
	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	"github.com/atlas-voyages/accounting-backend/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTripBookingRepository struct {
	BaseRepository
}

// newPgxTripBookingRepository creates a new repository for trip booking data.
func newPgxTripBookingRepository(pool *pgxpool.Pool) portsrepo.TripBookingRepositoryFacade {
	return &PgxTripBookingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TripBookingRepositoryFacade = (*PgxTripBookingRepository)(nil)

const tripBookingColumns = `trip_booking_id, booking_number, trip_name, customer_name, booking_date, seats, total_amount, status, cash_box_id, cash_transaction_id, notes, created_at, created_by, last_updated_at, last_updated_by`

func toDomainTripBooking(m models.TripBooking) domain.TripBooking {
	return domain.TripBooking{
		TripBookingID:     m.TripBookingID,
		BookingNumber:     m.BookingNumber,
		TripName:          m.TripName,
		CustomerName:      m.CustomerName,
		BookingDate:       m.BookingDate,
		Seats:             m.Seats,
		TotalAmount:       m.TotalAmount,
		Status:            domain.BookingStatus(m.Status),
		CashBoxID:         m.CashBoxID,
		CashTransactionID: m.CashTransactionID,
		Notes:             m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanTripBooking(row pgx.Row) (*domain.TripBooking, error) {
	var m models.TripBooking
	err := row.Scan(
		&m.TripBookingID, &m.BookingNumber, &m.TripName, &m.CustomerName,
		&m.BookingDate, &m.Seats, &m.TotalAmount, &m.Status,
		&m.CashBoxID, &m.CashTransactionID, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	booking := toDomainTripBooking(m)
	return &booking, nil
}

func (r *PgxTripBookingRepository) SaveTripBooking(ctx context.Context, b *domain.TripBooking) error {
	query := `
		INSERT INTO trip_bookings (booking_number, trip_name, customer_name, booking_date, seats, total_amount, status, cash_box_id, cash_transaction_id, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING trip_booking_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		b.BookingNumber, b.TripName, b.CustomerName, b.BookingDate,
		b.Seats, b.TotalAmount, b.Status,
		b.CashBoxID, b.CashTransactionID, b.Notes,
		b.CreatedAt, b.CreatedBy, b.LastUpdatedAt, b.LastUpdatedBy,
	).Scan(&b.TripBookingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: booking number %q", apperrors.ErrDuplicate, b.BookingNumber)
		}
		return fmt.Errorf("failed to save trip booking %q: %w", b.BookingNumber, err)
	}
	return nil
}

func (r *PgxTripBookingRepository) FindTripBookingByID(ctx context.Context, tripBookingID int64) (*domain.TripBooking, error) {
	query := `SELECT ` + tripBookingColumns + ` FROM trip_bookings WHERE trip_booking_id = $1;`
	booking, err := scanTripBooking(r.Pool.QueryRow(ctx, query, tripBookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: trip booking %d", apperrors.ErrNotFound, tripBookingID)
		}
		return nil, fmt.Errorf("failed to find trip booking %d: %w", tripBookingID, err)
	}
	return booking, nil
}

func (r *PgxTripBookingRepository) ListTripBookings(ctx context.Context, filter portsrepo.BookingListFilter) ([]domain.TripBooking, error) {
	query := `SELECT ` + tripBookingColumns + ` FROM trip_bookings WHERE 1=1`
	args := []any{}
	argN := 1

	appendArg := func(clause string, value any) {
		query += clause + strconv.Itoa(argN)
		args = append(args, value)
		argN++
	}
	if filter.Status != nil {
		appendArg(` AND status = $`, *filter.Status)
	}
	query += ` ORDER BY booking_date DESC, trip_booking_id DESC`
	if filter.Limit > 0 {
		appendArg(` LIMIT $`, filter.Limit)
	}
	if filter.Offset > 0 {
		appendArg(` OFFSET $`, filter.Offset)
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.TripBooking
	for rows.Next() {
		booking, err := scanTripBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip booking: %w", err)
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func (r *PgxTripBookingRepository) UpdateTripBooking(ctx context.Context, b domain.TripBooking) error {
	query := `
		UPDATE trip_bookings
		SET trip_name = $1, customer_name = $2, booking_date = $3,
		    seats = $4, total_amount = $5, status = $6,
		    cash_box_id = $7, cash_transaction_id = $8, notes = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE trip_booking_id = $12;
	`
	tag, err := r.Pool.Exec(ctx, query,
		b.TripName, b.CustomerName, b.BookingDate,
		b.Seats, b.TotalAmount, b.Status,
		b.CashBoxID, b.CashTransactionID, b.Notes,
		b.LastUpdatedAt, b.LastUpdatedBy,
		b.TripBookingID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip booking %d: %w", b.TripBookingID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trip booking %d", apperrors.ErrNotFound, b.TripBookingID)
	}
	return nil
}

func (r *PgxTripBookingRepository) DeleteTripBooking(ctx context.Context, tripBookingID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM trip_bookings WHERE trip_booking_id = $1;`, tripBookingID)
	if err != nil {
		return fmt.Errorf("failed to delete trip booking %d: %w", tripBookingID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: trip booking %d", apperrors.ErrNotFound, tripBookingID)
	}
	return nil
}

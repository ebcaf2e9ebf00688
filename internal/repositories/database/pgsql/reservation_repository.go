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

type PgxReservationRepository struct {
	BaseRepository
}

// newPgxReservationRepository creates a new repository for reservation data.
func newPgxReservationRepository(pool *pgxpool.Pool) portsrepo.ReservationRepositoryFacade {
	return &PgxReservationRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReservationRepositoryFacade = (*PgxReservationRepository)(nil)

const reservationColumns = `reservation_id, reservation_number, customer_name, service_type, reservation_date, selling_price, cost_price, status, cash_box_id, cash_transaction_id, notes, created_at, created_by, last_updated_at, last_updated_by`

func toDomainReservation(m models.Reservation) domain.Reservation {
	return domain.Reservation{
		ReservationID:     m.ReservationID,
		ReservationNumber: m.ReservationNumber,
		CustomerName:      m.CustomerName,
		ServiceType:       m.ServiceType,
		ReservationDate:   m.ReservationDate,
		SellingPrice:      m.SellingPrice,
		CostPrice:         m.CostPrice,
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

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var m models.Reservation
	err := row.Scan(
		&m.ReservationID, &m.ReservationNumber, &m.CustomerName, &m.ServiceType,
		&m.ReservationDate, &m.SellingPrice, &m.CostPrice, &m.Status,
		&m.CashBoxID, &m.CashTransactionID, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	res := toDomainReservation(m)
	return &res, nil
}

func (r *PgxReservationRepository) SaveReservation(ctx context.Context, res *domain.Reservation) error {
	query := `
		INSERT INTO reservations (reservation_number, customer_name, service_type, reservation_date, selling_price, cost_price, status, cash_box_id, cash_transaction_id, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING reservation_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		res.ReservationNumber, res.CustomerName, res.ServiceType,
		res.ReservationDate, res.SellingPrice, res.CostPrice, res.Status,
		res.CashBoxID, res.CashTransactionID, res.Notes,
		res.CreatedAt, res.CreatedBy, res.LastUpdatedAt, res.LastUpdatedBy,
	).Scan(&res.ReservationID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: reservation number %q", apperrors.ErrDuplicate, res.ReservationNumber)
		}
		return fmt.Errorf("failed to save reservation %q: %w", res.ReservationNumber, err)
	}
	return nil
}

func (r *PgxReservationRepository) FindReservationByID(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reservation_id = $1;`
	res, err := scanReservation(r.Pool.QueryRow(ctx, query, reservationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reservation %d", apperrors.ErrNotFound, reservationID)
		}
		return nil, fmt.Errorf("failed to find reservation %d: %w", reservationID, err)
	}
	return res, nil
}

func (r *PgxReservationRepository) ListReservations(ctx context.Context, filter portsrepo.BookingListFilter) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
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
	query += ` ORDER BY reservation_date DESC, reservation_id DESC`
	if filter.Limit > 0 {
		appendArg(` LIMIT $`, filter.Limit)
	}
	if filter.Offset > 0 {
		appendArg(` OFFSET $`, filter.Offset)
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func (r *PgxReservationRepository) UpdateReservation(ctx context.Context, res domain.Reservation) error {
	query := `
		UPDATE reservations
		SET customer_name = $1, service_type = $2, reservation_date = $3,
		    selling_price = $4, cost_price = $5, status = $6,
		    cash_box_id = $7, cash_transaction_id = $8, notes = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE reservation_id = $12;
	`
	tag, err := r.Pool.Exec(ctx, query,
		res.CustomerName, res.ServiceType, res.ReservationDate,
		res.SellingPrice, res.CostPrice, res.Status,
		res.CashBoxID, res.CashTransactionID, res.Notes,
		res.LastUpdatedAt, res.LastUpdatedBy,
		res.ReservationID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reservation %d: %w", res.ReservationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reservation %d", apperrors.ErrNotFound, res.ReservationID)
	}
	return nil
}

func (r *PgxReservationRepository) DeleteReservation(ctx context.Context, reservationID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM reservations WHERE reservation_id = $1;`, reservationID)
	if err != nil {
		return fmt.Errorf("failed to delete reservation %d: %w", reservationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reservation %d", apperrors.ErrNotFound, reservationID)
	}
	return nil
}

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
	"github.com/shopspring/decimal"
)

type PgxCashBoxRepository struct {
	BaseRepository
}

// newPgxCashBoxRepository creates a new repository for cash box and cash transaction data.
func newPgxCashBoxRepository(pool *pgxpool.Pool) portsrepo.CashBoxRepositoryFacade {
	return &PgxCashBoxRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CashBoxRepositoryFacade = (*PgxCashBoxRepository)(nil)

const cashBoxColumns = `cash_box_id, code, name, box_type, currency, opening_balance, current_balance, is_active, is_deleted, version, notes, created_at, created_by, last_updated_at, last_updated_by`

const transactionColumns = `transaction_id, voucher_number, cash_box_id, type, amount, currency, exchange_rate, original_amount, transaction_date, month, year, category, description, party_name, payment_method, instapay_commission, reference_number, notes, balance_before, balance_after, is_deleted, reservation_id, posting_status, created_at, created_by, last_updated_at, last_updated_by`

func toDomainCashBox(m models.CashBox) domain.CashBox {
	return domain.CashBox{
		CashBoxID:      m.CashBoxID,
		Code:           m.Code,
		Name:           m.Name,
		BoxType:        domain.CashBoxType(m.BoxType),
		Currency:       m.Currency,
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		IsDeleted:      m.IsDeleted,
		Version:        m.Version,
		Notes:          m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanCashBox(row pgx.Row) (*domain.CashBox, error) {
	var m models.CashBox
	err := row.Scan(
		&m.CashBoxID, &m.Code, &m.Name, &m.BoxType, &m.Currency,
		&m.OpeningBalance, &m.CurrentBalance, &m.IsActive, &m.IsDeleted,
		&m.Version, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	box := toDomainCashBox(m)
	return &box, nil
}

func toDomainTransaction(m models.CashTransaction) domain.CashTransaction {
	return domain.CashTransaction{
		TransactionID:      m.TransactionID,
		VoucherNumber:      m.VoucherNumber,
		CashBoxID:          m.CashBoxID,
		Type:               domain.TransactionType(m.Type),
		Amount:             m.Amount,
		Currency:           m.Currency,
		ExchangeRate:       m.ExchangeRate,
		OriginalAmount:     m.OriginalAmount,
		TransactionDate:    m.TransactionDate,
		Month:              m.Month,
		Year:               m.Year,
		Category:           m.Category,
		Description:        m.Description,
		PartyName:          m.PartyName,
		PaymentMethod:      domain.PaymentMethod(m.PaymentMethod),
		InstaPayCommission: m.InstaPayCommission,
		ReferenceNumber:    m.ReferenceNumber,
		Notes:              m.Notes,
		BalanceBefore:      m.BalanceBefore,
		BalanceAfter:       m.BalanceAfter,
		IsDeleted:          m.IsDeleted,
		ReservationID:      m.ReservationID,
		PostingStatus:      domain.PostingStatus(m.PostingStatus),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanTransaction(row pgx.Row) (*domain.CashTransaction, error) {
	var m models.CashTransaction
	err := row.Scan(
		&m.TransactionID, &m.VoucherNumber, &m.CashBoxID, &m.Type,
		&m.Amount, &m.Currency, &m.ExchangeRate, &m.OriginalAmount,
		&m.TransactionDate, &m.Month, &m.Year, &m.Category, &m.Description,
		&m.PartyName, &m.PaymentMethod, &m.InstaPayCommission,
		&m.ReferenceNumber, &m.Notes, &m.BalanceBefore, &m.BalanceAfter,
		&m.IsDeleted, &m.ReservationID, &m.PostingStatus,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	txn := toDomainTransaction(m)
	return &txn, nil
}

func (r *PgxCashBoxRepository) FindCashBoxByID(ctx context.Context, cashBoxID int64) (*domain.CashBox, error) {
	query := `SELECT ` + cashBoxColumns + ` FROM cash_boxes WHERE cash_box_id = $1 AND is_deleted = FALSE;`
	box, err := scanCashBox(r.Pool.QueryRow(ctx, query, cashBoxID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cash box %d", apperrors.ErrNotFound, cashBoxID)
		}
		return nil, fmt.Errorf("failed to find cash box %d: %w", cashBoxID, err)
	}
	return box, nil
}

func (r *PgxCashBoxRepository) FindCashBoxByCode(ctx context.Context, code string) (*domain.CashBox, error) {
	query := `SELECT ` + cashBoxColumns + ` FROM cash_boxes WHERE code = $1 AND is_deleted = FALSE;`
	box, err := scanCashBox(r.Pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cash box %q", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find cash box %q: %w", code, err)
	}
	return box, nil
}

func (r *PgxCashBoxRepository) ListCashBoxes(ctx context.Context, activeOnly bool) ([]domain.CashBox, error) {
	query := `SELECT ` + cashBoxColumns + ` FROM cash_boxes WHERE is_deleted = FALSE`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY code;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash boxes: %w", err)
	}
	defer rows.Close()

	var boxes []domain.CashBox
	for rows.Next() {
		box, err := scanCashBox(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash box: %w", err)
		}
		boxes = append(boxes, *box)
	}
	return boxes, rows.Err()
}

func (r *PgxCashBoxRepository) SaveCashBox(ctx context.Context, box *domain.CashBox) error {
	query := `
		INSERT INTO cash_boxes (code, name, box_type, currency, opening_balance, current_balance, is_active, is_deleted, version, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING cash_box_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		box.Code, box.Name, box.BoxType, box.Currency,
		box.OpeningBalance, box.CurrentBalance, box.IsActive, box.IsDeleted,
		box.Version, box.Notes,
		box.CreatedAt, box.CreatedBy, box.LastUpdatedAt, box.LastUpdatedBy,
	).Scan(&box.CashBoxID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: cash box code %q", apperrors.ErrDuplicate, box.Code)
		}
		return fmt.Errorf("failed to save cash box %q: %w", box.Code, err)
	}
	return nil
}

func (r *PgxCashBoxRepository) UpdateCashBox(ctx context.Context, box domain.CashBox) error {
	query := `
		UPDATE cash_boxes
		SET name = $1, is_active = $2, notes = $3, last_updated_at = $4, last_updated_by = $5
		WHERE cash_box_id = $6 AND is_deleted = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query,
		box.Name, box.IsActive, box.Notes,
		box.LastUpdatedAt, box.LastUpdatedBy,
		box.CashBoxID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash box %d: %w", box.CashBoxID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash box %d", apperrors.ErrNotFound, box.CashBoxID)
	}
	return nil
}

// DeleteCashBox removes the box and every transaction recorded against it.
func (r *PgxCashBoxRepository) DeleteCashBox(ctx context.Context, cashBoxID int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM cash_transactions WHERE cash_box_id = $1;`, cashBoxID); err != nil {
		return fmt.Errorf("failed to delete transactions of cash box %d: %w", cashBoxID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM cash_boxes WHERE cash_box_id = $1;`, cashBoxID)
	if err != nil {
		return fmt.Errorf("failed to delete cash box %d: %w", cashBoxID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash box %d", apperrors.ErrNotFound, cashBoxID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCashBoxRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.CashTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM cash_transactions WHERE transaction_id = $1 AND is_deleted = FALSE;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cash transaction %d", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find cash transaction %d: %w", transactionID, err)
	}
	return txn, nil
}

func (r *PgxCashBoxRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionListFilter) ([]domain.CashTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM cash_transactions WHERE is_deleted = FALSE`
	args := []any{}
	argN := 1

	appendArg := func(clause string, value any) {
		query += clause + strconv.Itoa(argN)
		args = append(args, value)
		argN++
	}
	if filter.CashBoxID != nil {
		appendArg(` AND cash_box_id = $`, *filter.CashBoxID)
	}
	if filter.Type != nil {
		appendArg(` AND type = $`, *filter.Type)
	}
	if filter.Category != nil {
		appendArg(` AND category = $`, *filter.Category)
	}
	if filter.Month != nil {
		appendArg(` AND month = $`, *filter.Month)
	}
	if filter.Year != nil {
		appendArg(` AND year = $`, *filter.Year)
	}
	query += ` ORDER BY transaction_date DESC, transaction_id DESC`
	if filter.Limit > 0 {
		appendArg(` LIMIT $`, filter.Limit)
	}
	if filter.Offset > 0 {
		appendArg(` OFFSET $`, filter.Offset)
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]domain.CashTransaction, error) {
	var txns []domain.CashTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	return txns, rows.Err()
}

// moveBalance advances the cash box balance inside tx. The update matches
// the caller's expected version and bumps it; zero rows means somebody else
// won the race.
func moveBalance(ctx context.Context, tx pgx.Tx, cashBoxID int64, newBalance decimal.Decimal, expectedVersion int64) error {
	query := `
		UPDATE cash_boxes
		SET current_balance = $1, version = version + 1
		WHERE cash_box_id = $2 AND version = $3 AND is_deleted = FALSE;
	`
	tag, err := tx.Exec(ctx, query, newBalance, cashBoxID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update balance of cash box %d: %w", cashBoxID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash box %d version %d", apperrors.ErrConcurrencyConflict, cashBoxID, expectedVersion)
	}
	return nil
}

func (r *PgxCashBoxRepository) SaveTransactionWithBalance(ctx context.Context, txn *domain.CashTransaction, newBalance decimal.Decimal, expectedVersion int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := moveBalance(ctx, tx, txn.CashBoxID, newBalance, expectedVersion); err != nil {
		return err
	}

	query := `
		INSERT INTO cash_transactions (voucher_number, cash_box_id, type, amount, currency, exchange_rate, original_amount, transaction_date, month, year, category, description, party_name, payment_method, instapay_commission, reference_number, notes, balance_before, balance_after, is_deleted, reservation_id, posting_status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING transaction_id;
	`
	err = tx.QueryRow(ctx, query,
		txn.VoucherNumber, txn.CashBoxID, txn.Type, txn.Amount, txn.Currency,
		txn.ExchangeRate, txn.OriginalAmount, txn.TransactionDate,
		txn.Month, txn.Year, txn.Category, txn.Description, txn.PartyName,
		txn.PaymentMethod, txn.InstaPayCommission, txn.ReferenceNumber, txn.Notes,
		txn.BalanceBefore, txn.BalanceAfter, txn.IsDeleted, txn.ReservationID,
		txn.PostingStatus,
		txn.CreatedAt, txn.CreatedBy, txn.LastUpdatedAt, txn.LastUpdatedBy,
	).Scan(&txn.TransactionID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: voucher %q", apperrors.ErrDuplicate, txn.VoucherNumber)
		}
		return fmt.Errorf("failed to save cash transaction %q: %w", txn.VoucherNumber, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCashBoxRepository) UpdateTransactionWithBalance(ctx context.Context, txn domain.CashTransaction, newBalance decimal.Decimal, expectedVersion int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := moveBalance(ctx, tx, txn.CashBoxID, newBalance, expectedVersion); err != nil {
		return err
	}

	query := `
		UPDATE cash_transactions
		SET type = $1, amount = $2, currency = $3, exchange_rate = $4, original_amount = $5,
		    transaction_date = $6, month = $7, year = $8, category = $9, description = $10,
		    party_name = $11, payment_method = $12, instapay_commission = $13,
		    reference_number = $14, notes = $15, balance_before = $16, balance_after = $17,
		    posting_status = $18, last_updated_at = $19, last_updated_by = $20
		WHERE transaction_id = $21 AND is_deleted = FALSE;
	`
	tag, err := tx.Exec(ctx, query,
		txn.Type, txn.Amount, txn.Currency, txn.ExchangeRate, txn.OriginalAmount,
		txn.TransactionDate, txn.Month, txn.Year, txn.Category, txn.Description,
		txn.PartyName, txn.PaymentMethod, txn.InstaPayCommission,
		txn.ReferenceNumber, txn.Notes, txn.BalanceBefore, txn.BalanceAfter,
		txn.PostingStatus, txn.LastUpdatedAt, txn.LastUpdatedBy,
		txn.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash transaction %d: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash transaction %d", apperrors.ErrNotFound, txn.TransactionID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCashBoxRepository) SoftDeleteTransactionWithBalance(ctx context.Context, transactionID, cashBoxID int64, newBalance decimal.Decimal, expectedVersion int64, deletedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if err := moveBalance(ctx, tx, cashBoxID, newBalance, expectedVersion); err != nil {
		return err
	}

	query := `
		UPDATE cash_transactions
		SET is_deleted = TRUE, last_updated_at = NOW(), last_updated_by = $1
		WHERE transaction_id = $2 AND cash_box_id = $3 AND is_deleted = FALSE;
	`
	tag, err := tx.Exec(ctx, query, deletedBy, transactionID, cashBoxID)
	if err != nil {
		return fmt.Errorf("failed to delete cash transaction %d: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash transaction %d", apperrors.ErrNotFound, transactionID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxCashBoxRepository) UpdatePostingStatus(ctx context.Context, transactionID int64, status domain.PostingStatus) error {
	query := `UPDATE cash_transactions SET posting_status = $1 WHERE transaction_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, status, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update posting status of transaction %d: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: cash transaction %d", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

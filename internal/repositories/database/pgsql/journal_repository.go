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
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `journal_entry_id, entry_number, entry_date, entry_type, reference_type, reference_id, description, total_debit, total_credit, is_posted, posted_at, created_at, created_by, last_updated_at, last_updated_by`

func toDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		JournalEntryID: m.JournalEntryID,
		EntryNumber:    m.EntryNumber,
		EntryDate:      m.EntryDate,
		EntryType:      domain.EntryType(m.EntryType),
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		Description:    m.Description,
		TotalDebit:     m.TotalDebit,
		TotalCredit:    m.TotalCredit,
		IsPosted:       m.IsPosted,
		PostedAt:       m.PostedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalEntryID, &m.EntryNumber, &m.EntryDate, &m.EntryType,
		&m.ReferenceType, &m.ReferenceID, &m.Description,
		&m.TotalDebit, &m.TotalCredit, &m.IsPosted, &m.PostedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	entry := toDomainEntry(m)
	return &entry, nil
}

// SaveEntry writes the entry and all its lines in one transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	entryQuery := `
		INSERT INTO journal_entries (entry_number, entry_date, entry_type, reference_type, reference_id, description, total_debit, total_credit, is_posted, posted_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING journal_entry_id;
	`
	err = tx.QueryRow(ctx, entryQuery,
		entry.EntryNumber,
		entry.EntryDate,
		entry.EntryType,
		entry.ReferenceType,
		entry.ReferenceID,
		entry.Description,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.IsPosted,
		entry.PostedAt,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	).Scan(&entry.JournalEntryID)
	if err != nil {
		return fmt.Errorf("failed to save journal entry %s: %w", entry.EntryNumber, err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (journal_entry_id, account_id, description, debit_amount, credit_amount, line_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING line_id;
	`
	for i := range entry.Lines {
		entry.Lines[i].JournalEntryID = entry.JournalEntryID
		err = tx.QueryRow(ctx, lineQuery,
			entry.JournalEntryID,
			entry.Lines[i].AccountID,
			entry.Lines[i].Description,
			entry.Lines[i].DebitAmount,
			entry.Lines[i].CreditAmount,
			entry.Lines[i].LineOrder,
		).Scan(&entry.Lines[i].LineID)
		if err != nil {
			return fmt.Errorf("failed to save line %d of entry %s: %w", i+1, entry.EntryNumber, err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, journalEntryID int64) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE journal_entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, journalEntryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %d", apperrors.ErrNotFound, journalEntryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %d: %w", journalEntryID, err)
	}

	entry.Lines, err = r.findLines(ctx, journalEntryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *PgxJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_number = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %q", apperrors.ErrNotFound, entryNumber)
		}
		return nil, fmt.Errorf("failed to find journal entry %q: %w", entryNumber, err)
	}

	entry.Lines, err = r.findLines(ctx, entry.JournalEntryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, journalEntryID int64) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT line_id, journal_entry_id, account_id, description, debit_amount, credit_amount, line_order
		FROM journal_entry_lines WHERE journal_entry_id = $1 ORDER BY line_order;
	`
	rows, err := r.Pool.Query(ctx, query, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %d: %w", journalEntryID, err)
	}
	defer rows.Close()

	return collectLines(rows)
}

func collectLines(rows pgx.Rows) ([]domain.JournalEntryLine, error) {
	var lines []domain.JournalEntryLine
	for rows.Next() {
		var m models.JournalEntryLine
		if err := rows.Scan(&m.LineID, &m.JournalEntryID, &m.AccountID, &m.Description, &m.DebitAmount, &m.CreditAmount, &m.LineOrder); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, domain.JournalEntryLine{
			LineID:         m.LineID,
			JournalEntryID: m.JournalEntryID,
			AccountID:      m.AccountID,
			Description:    m.Description,
			DebitAmount:    m.DebitAmount,
			CreditAmount:   m.CreditAmount,
			LineOrder:      m.LineOrder,
		})
	}
	return lines, rows.Err()
}

func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter portsrepo.JournalListFilter) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	argN := 1

	appendArg := func(clause string, value any) {
		query += clause + strconv.Itoa(argN)
		args = append(args, value)
		argN++
	}
	if filter.ReferenceType != nil {
		appendArg(` AND reference_type = $`, *filter.ReferenceType)
	}
	if filter.ReferenceID != nil {
		appendArg(` AND reference_id = $`, *filter.ReferenceID)
	}
	if filter.EntryType != nil {
		appendArg(` AND entry_type = $`, *filter.EntryType)
	}
	if filter.DateFrom != nil {
		appendArg(` AND entry_date >= $`, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		appendArg(` AND entry_date <= $`, *filter.DateTo)
	}
	query += ` ORDER BY entry_date DESC, journal_entry_id DESC`
	if filter.Limit > 0 {
		appendArg(` LIMIT $`, filter.Limit)
	}
	if filter.Offset > 0 {
		appendArg(` OFFSET $`, filter.Offset)
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Lines, err = r.findLines(ctx, entries[i].JournalEntryID)
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (r *PgxJournalRepository) ListLinesByAccount(ctx context.Context, accountID int64, limit, offset int) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT l.line_id, l.journal_entry_id, l.account_id, l.description, l.debit_amount, l.credit_amount, l.line_order
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
		WHERE l.account_id = $1
		ORDER BY e.entry_date DESC, l.journal_entry_id DESC, l.line_order
		LIMIT $2 OFFSET $3;
	`
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines for account %d: %w", accountID, err)
	}
	defer rows.Close()

	return collectLines(rows)
}

// DeleteEntry removes the entry and cascades to its lines in one transaction.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, journalEntryID int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE journal_entry_id = $1;`, journalEntryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %d: %w", journalEntryID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE journal_entry_id = $1;`, journalEntryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %d: %w", journalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %d", apperrors.ErrNotFound, journalEntryID)
	}

	return r.Commit(ctx, tx)
}

// DeleteEntriesByReference removes every entry linked to a source document.
// Missing entries are not an error; the mirror may never have been written.
func (r *PgxJournalRepository) DeleteEntriesByReference(ctx context.Context, referenceType string, referenceID int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	deleteLines := `
		DELETE FROM journal_entry_lines
		WHERE journal_entry_id IN (
			SELECT journal_entry_id FROM journal_entries WHERE reference_type = $1 AND reference_id = $2
		);
	`
	if _, err := tx.Exec(ctx, deleteLines, referenceType, referenceID); err != nil {
		return fmt.Errorf("failed to delete lines for %s %d: %w", referenceType, referenceID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE reference_type = $1 AND reference_id = $2;`, referenceType, referenceID); err != nil {
		return fmt.Errorf("failed to delete entries for %s %d: %w", referenceType, referenceID, err)
	}

	return r.Commit(ctx, tx)
}

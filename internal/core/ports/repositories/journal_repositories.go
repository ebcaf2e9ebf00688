package repositories

import (
	"context"
	"time"

	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
)

// JournalListFilter narrows ListEntries results. Nil fields mean "no filter".
type JournalListFilter struct {
	ReferenceType *string
	ReferenceID   *int64
	EntryType     *domain.EntryType
	DateFrom      *time.Time
	DateTo        *time.Time
	Limit         int
	Offset        int
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByID retrieves a journal entry with its lines.
	FindEntryByID(ctx context.Context, journalEntryID int64) (*domain.JournalEntry, error)

	// FindEntryByNumber retrieves a journal entry by its entry number.
	FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntries retrieves journal entries matching the filter, newest first, with lines.
	ListEntries(ctx context.Context, filter JournalListFilter) ([]domain.JournalEntry, error)

	// ListLinesByAccount retrieves the lines posted against a single account, newest first.
	ListLinesByAccount(ctx context.Context, accountID int64, limit, offset int) ([]domain.JournalEntryLine, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntry persists an entry and its lines in one database transaction.
	// The entry's generated ID and line IDs are filled in on success.
	// Account balances are never derived from journal lines.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry) error

	// DeleteEntry removes an entry and its lines in one database transaction.
	DeleteEntry(ctx context.Context, journalEntryID int64) error

	// DeleteEntriesByReference removes the entries (and lines) linked to a
	// source document.
	DeleteEntriesByReference(ctx context.Context, referenceType string, referenceID int64) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

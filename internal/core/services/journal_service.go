package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlas-voyages/accounting-backend/internal/apperrors"
	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
	"github.com/atlas-voyages/accounting-backend/internal/platform/config"
)

var (
	ErrEntryUnbalanced = errors.New("journal entry lines do not balance")
	ErrEntryMinLines   = errors.New("journal entry must have at least two lines")
	ErrLineOneSided    = errors.New("journal entry line must carry exactly one positive side")
)

// journalService owns the general ledger: manual entries and the posting
// rules that mirror business documents into balanced journal entries.
type journalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	auditSvc     portssvc.AuditSvcFacade
	posting      config.PostingAccounts
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, sequenceRepo portsrepo.SequenceRepository, auditSvc portssvc.AuditSvcFacade, posting config.PostingAccounts) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
		auditSvc:     auditSvc,
		posting:      posting,
	}
}

// resolvePostingAccount maps a configured code to an existing active
// account. Any miss aborts the posting before a single row is written.
func (s *journalService) resolvePostingAccount(ctx context.Context, code, role string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s account %q does not exist", apperrors.ErrConfiguration, role, code)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: %s account %q is inactive", apperrors.ErrConfiguration, role, code)
	}
	return account, nil
}

// nextEntryNumber advances the global entry counter and formats it.
func (s *journalService) nextEntryNumber(ctx context.Context) (string, error) {
	n, err := s.sequenceRepo.Next(ctx, "journal:entry", 0)
	if err != nil {
		return "", fmt.Errorf("failed to advance journal entry counter: %w", err)
	}
	return fmt.Sprintf("JE-%06d", n), nil
}

// saveEntry numbers, totals and persists an entry with its lines.
func (s *journalService) saveEntry(ctx context.Context, entry *domain.JournalEntry, userID string) error {
	entryNumber, err := s.nextEntryNumber(ctx)
	if err != nil {
		return err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i := range entry.Lines {
		entry.Lines[i].LineOrder = i + 1
		totalDebit = totalDebit.Add(entry.Lines[i].DebitAmount)
		totalCredit = totalCredit.Add(entry.Lines[i].CreditAmount)
	}
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debits %s, credits %s", ErrEntryUnbalanced, totalDebit, totalCredit)
	}

	now := time.Now()
	entry.EntryNumber = entryNumber
	entry.TotalDebit = totalDebit
	entry.TotalCredit = totalCredit
	entry.IsPosted = true
	entry.PostedAt = &now
	entry.CreatedAt = now
	entry.CreatedBy = userID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_number", entryNumber))
		return err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_number", entry.EntryNumber),
		slog.String("reference_type", entry.ReferenceType),
		slog.String("total", totalDebit.String()))
	return nil
}

func (s *journalService) CreateManualEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	if len(req.Lines) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrEntryMinLines, len(req.Lines))
	}

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, l := range req.Lines {
		debitSet := l.DebitAmount.IsPositive()
		creditSet := l.CreditAmount.IsPositive()
		if debitSet == creditSet || l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
			return nil, fmt.Errorf("%w: line %d has debit %s and credit %s", ErrLineOneSided, i+1, l.DebitAmount, l.CreditAmount)
		}
		if _, err := s.accountRepo.FindAccountByID(ctx, l.AccountID); err != nil {
			return nil, fmt.Errorf("line %d account lookup failed: %w", i+1, err)
		}
		lines[i] = domain.JournalEntryLine{
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
		}
	}

	entry := domain.JournalEntry{
		EntryDate:   req.EntryDate,
		EntryType:   domain.Manual,
		Description: req.Description,
		Lines:       lines,
	}
	if err := s.saveEntry(ctx, &entry, userID); err != nil {
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "create", "journal_entry", entry.JournalEntryID, fmt.Sprintf("manual entry %s", entry.EntryNumber))
	return &entry, nil
}

func (s *journalService) PostSalesInvoice(ctx context.Context, inv domain.SalesInvoice, userID string) (*domain.JournalEntry, error) {
	receivable, err := s.resolvePostingAccount(ctx, s.posting.Receivables, "receivables")
	if err != nil {
		return nil, err
	}
	revenue, err := s.resolvePostingAccount(ctx, s.posting.SalesRevenue, "sales revenue")
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalEntryLine{
		{AccountID: receivable.AccountID, Description: fmt.Sprintf("Invoice %s - %s", inv.InvoiceNumber, inv.CustomerName), DebitAmount: inv.TotalAmount},
		{AccountID: revenue.AccountID, Description: fmt.Sprintf("Sales revenue for invoice %s", inv.InvoiceNumber), CreditAmount: inv.SubTotal},
	}
	if inv.TaxAmount.IsPositive() {
		tax, err := s.resolvePostingAccount(ctx, s.posting.TaxPayable, "tax payable")
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.JournalEntryLine{
			AccountID:    tax.AccountID,
			Description:  fmt.Sprintf("Tax on invoice %s", inv.InvoiceNumber),
			CreditAmount: inv.TaxAmount,
		})
	}

	refID := inv.SalesInvoiceID
	entry := domain.JournalEntry{
		EntryDate:     inv.InvoiceDate,
		EntryType:     domain.Auto,
		ReferenceType: domain.RefSalesInvoice,
		ReferenceID:   &refID,
		Description:   fmt.Sprintf("Sales invoice %s - %s", inv.InvoiceNumber, inv.CustomerName),
		Lines:         lines,
	}
	if err := s.saveEntry(ctx, &entry, userID); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *journalService) PostPurchaseInvoice(ctx context.Context, inv domain.PurchaseInvoice, userID string) (*domain.JournalEntry, error) {
	expense, err := s.resolvePostingAccount(ctx, s.posting.Purchases, "purchases")
	if err != nil {
		return nil, err
	}
	payable, err := s.resolvePostingAccount(ctx, s.posting.Payables, "payables")
	if err != nil {
		return nil, err
	}

	lines := []domain.JournalEntryLine{
		{AccountID: expense.AccountID, Description: fmt.Sprintf("Purchases for invoice %s", inv.InvoiceNumber), DebitAmount: inv.SubTotal},
	}
	if inv.TaxAmount.IsPositive() {
		tax, err := s.resolvePostingAccount(ctx, s.posting.TaxPayable, "tax payable")
		if err != nil {
			return nil, err
		}
		lines = append(lines, domain.JournalEntryLine{
			AccountID:   tax.AccountID,
			Description: fmt.Sprintf("Tax on invoice %s", inv.InvoiceNumber),
			DebitAmount: inv.TaxAmount,
		})
	}
	lines = append(lines, domain.JournalEntryLine{
		AccountID:    payable.AccountID,
		Description:  fmt.Sprintf("Invoice %s - %s", inv.InvoiceNumber, inv.SupplierName),
		CreditAmount: inv.TotalAmount,
	})

	refID := inv.PurchaseInvoiceID
	entry := domain.JournalEntry{
		EntryDate:     inv.InvoiceDate,
		EntryType:     domain.Auto,
		ReferenceType: domain.RefPurchaseInvoice,
		ReferenceID:   &refID,
		Description:   fmt.Sprintf("Purchase invoice %s - %s", inv.InvoiceNumber, inv.SupplierName),
		Lines:         lines,
	}
	if err := s.saveEntry(ctx, &entry, userID); err != nil {
		return nil, err
	}
	return &entry, nil
}

// oppositeAccount picks the counter-account for a cash movement: an
// active account named after the transaction's category with the
// matching type, falling back to the configured catch-all.
func (s *journalService) oppositeAccount(ctx context.Context, txn domain.CashTransaction) (*domain.Account, error) {
	accountType := domain.Revenue
	fallback := s.posting.FallbackRevenue
	role := "fallback revenue"
	if txn.Type == domain.TxnExpense {
		accountType = domain.Expense
		fallback = s.posting.FallbackExpense
		role = "fallback expense"
	}

	if txn.Category != "" {
		candidates, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountListFilter{
			AccountType: &accountType,
			ActiveOnly:  true,
			Search:      txn.Category,
		})
		if err == nil {
			for _, c := range candidates {
				if c.Name == txn.Category {
					return &c, nil
				}
			}
		}
	}
	return s.resolvePostingAccount(ctx, fallback, role)
}

func (s *journalService) PostCashTransaction(ctx context.Context, txn domain.CashTransaction, userID string) (*domain.JournalEntry, error) {
	cash, err := s.resolvePostingAccount(ctx, s.posting.Cash, "cash")
	if err != nil {
		return nil, err
	}
	opposite, err := s.oppositeAccount(ctx, txn)
	if err != nil {
		return nil, err
	}

	amount := txn.Amount
	var lines []domain.JournalEntryLine
	if txn.Type == domain.TxnIncome {
		lines = []domain.JournalEntryLine{
			{AccountID: cash.AccountID, Description: fmt.Sprintf("Cash in, voucher %s", txn.VoucherNumber), DebitAmount: amount},
			{AccountID: opposite.AccountID, Description: txn.Description, CreditAmount: amount},
		}
	} else {
		// The commission leaves the box with the expense, so the ledger
		// mirror carries the effective amount.
		amount = txn.EffectiveAmount()
		lines = []domain.JournalEntryLine{
			{AccountID: opposite.AccountID, Description: txn.Description, DebitAmount: amount},
			{AccountID: cash.AccountID, Description: fmt.Sprintf("Cash out, voucher %s", txn.VoucherNumber), CreditAmount: amount},
		}
	}

	refID := txn.TransactionID
	entry := domain.JournalEntry{
		EntryDate:     txn.TransactionDate,
		EntryType:     domain.Auto,
		ReferenceType: domain.RefCashTransaction,
		ReferenceID:   &refID,
		Description:   fmt.Sprintf("Cash %s %s - %s", txn.Type, txn.VoucherNumber, txn.Category),
		Lines:         lines,
	}
	if err := s.saveEntry(ctx, &entry, userID); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *journalService) PostReservation(ctx context.Context, r domain.Reservation, userID string) (*domain.JournalEntry, error) {
	cash, err := s.resolvePostingAccount(ctx, s.posting.Cash, "cash")
	if err != nil {
		return nil, err
	}
	revenue, err := s.resolvePostingAccount(ctx, s.posting.ReservationRevenue, "reservation revenue")
	if err != nil {
		return nil, err
	}

	refID := r.ReservationID
	entry := domain.JournalEntry{
		EntryDate:     r.ReservationDate,
		EntryType:     domain.Auto,
		ReferenceType: domain.RefReservation,
		ReferenceID:   &refID,
		Description:   fmt.Sprintf("Reservation %s - %s", r.ReservationNumber, r.CustomerName),
		Lines: []domain.JournalEntryLine{
			{AccountID: cash.AccountID, Description: fmt.Sprintf("Payment for reservation %s", r.ReservationNumber), DebitAmount: r.SellingPrice},
			{AccountID: revenue.AccountID, Description: fmt.Sprintf("Revenue for reservation %s", r.ReservationNumber), CreditAmount: r.SellingPrice},
		},
	}
	if err := s.saveEntry(ctx, &entry, userID); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *journalService) PostTripBooking(ctx context.Context, b domain.TripBooking, userID string) (*domain.JournalEntry, error) {
	cash, err := s.resolvePostingAccount(ctx, s.posting.Cash, "cash")
	if err != nil {
		return nil, err
	}
	revenue, err := s.resolvePostingAccount(ctx, s.posting.TripRevenue, "trip revenue")
	if err != nil {
		return nil, err
	}

	refID := b.TripBookingID
	entry := domain.JournalEntry{
		EntryDate:     b.BookingDate,
		EntryType:     domain.Auto,
		ReferenceType: domain.RefTripBooking,
		ReferenceID:   &refID,
		Description:   fmt.Sprintf("Trip booking %s - %s", b.BookingNumber, b.CustomerName),
		Lines: []domain.JournalEntryLine{
			{AccountID: cash.AccountID, Description: fmt.Sprintf("Payment for booking %s", b.BookingNumber), DebitAmount: b.TotalAmount},
			{AccountID: revenue.AccountID, Description: fmt.Sprintf("Revenue for booking %s", b.BookingNumber), CreditAmount: b.TotalAmount},
		},
	}
	if err := s.saveEntry(ctx, &entry, userID); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *journalService) GetEntryByID(ctx context.Context, journalEntryID int64) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByID(ctx, journalEntryID)
}

func (s *journalService) GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByNumber(ctx, entryNumber)
}

func (s *journalService) ListEntries(ctx context.Context, filter portsrepo.JournalListFilter) ([]domain.JournalEntry, error) {
	return s.journalRepo.ListEntries(ctx, filter)
}

func (s *journalService) ListAccountLedger(ctx context.Context, accountID int64, limit, offset int) ([]domain.JournalEntryLine, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.journalRepo.ListLinesByAccount(ctx, accountID, limit, offset)
}

func (s *journalService) DeleteEntry(ctx context.Context, journalEntryID int64, userID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, journalEntryID)
	if err != nil {
		return err
	}
	if err := s.journalRepo.DeleteEntry(ctx, journalEntryID); err != nil {
		s.LogError(ctx, err, "Failed to delete journal entry", slog.Int64("journal_entry_id", journalEntryID))
		return err
	}
	s.auditSvc.Record(ctx, userID, "delete", "journal_entry", journalEntryID, fmt.Sprintf("deleted entry %s", entry.EntryNumber))
	return nil
}

func (s *journalService) UnpostReference(ctx context.Context, referenceType string, referenceID int64) error {
	return s.journalRepo.DeleteEntriesByReference(ctx, referenceType, referenceID)
}

// ValidateMappings resolves every configured posting account once. Run at
// startup so a broken mapping is visible before the first posting.
func (s *journalService) ValidateMappings(ctx context.Context) error {
	mappings := []struct {
		code string
		role string
	}{
		{s.posting.Cash, "cash"},
		{s.posting.Receivables, "receivables"},
		{s.posting.Payables, "payables"},
		{s.posting.TaxPayable, "tax payable"},
		{s.posting.SalesRevenue, "sales revenue"},
		{s.posting.ReservationRevenue, "reservation revenue"},
		{s.posting.TripRevenue, "trip revenue"},
		{s.posting.Purchases, "purchases"},
		{s.posting.FallbackRevenue, "fallback revenue"},
		{s.posting.FallbackExpense, "fallback expense"},
	}

	var errs []error
	for _, m := range mappings {
		if _, err := s.resolvePostingAccount(ctx, m.code, m.role); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

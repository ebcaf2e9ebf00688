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
)

// maxBalanceRetries bounds the whole read-modify-write cycle retries on a
// version conflict. Losing the race means another writer moved the
// balance; the cycle restarts from a fresh read.
const maxBalanceRetries = 3

// cashBoxService owns cash boxes and their authoritative running balances.
type cashBoxService struct {
	BaseService
	cashBoxRepo  portsrepo.CashBoxRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	journalSvc   portssvc.JournalPosterSvc
	auditSvc     portssvc.AuditSvcFacade
	enqueuer     portssvc.TaskEnqueuer

	// homeCurrency is the reporting currency; monthly report totals only
	// cover transactions recorded in it.
	homeCurrency string
}

// NewCashBoxService creates a new cash box service.
func NewCashBoxService(cashBoxRepo portsrepo.CashBoxRepositoryFacade, sequenceRepo portsrepo.SequenceRepository, journalSvc portssvc.JournalPosterSvc, auditSvc portssvc.AuditSvcFacade, enqueuer portssvc.TaskEnqueuer, homeCurrency string) portssvc.CashBoxSvcFacade {
	return &cashBoxService{
		cashBoxRepo:  cashBoxRepo,
		sequenceRepo: sequenceRepo,
		journalSvc:   journalSvc,
		auditSvc:     auditSvc,
		enqueuer:     enqueuer,
		homeCurrency: homeCurrency,
	}
}

func (s *cashBoxService) CreateCashBox(ctx context.Context, req dto.CreateCashBoxRequest, userID string) (*domain.CashBox, error) {
	if existing, err := s.cashBoxRepo.FindCashBoxByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: cash box code %q already exists", apperrors.ErrDuplicate, req.Code)
	}

	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}
	if opening.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	box := domain.CashBox{
		Code:           req.Code,
		Name:           req.Name,
		BoxType:        req.BoxType,
		Currency:       req.Currency,
		OpeningBalance: opening,
		CurrentBalance: opening,
		IsActive:       true,
		Version:        1,
		Notes:          req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.cashBoxRepo.SaveCashBox(ctx, &box); err != nil {
		s.LogError(ctx, err, "Failed to save cash box", slog.String("code", req.Code))
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "create", "cash_box", box.CashBoxID, fmt.Sprintf("created cash box %s (%s)", box.Code, box.Name))
	return &box, nil
}

func (s *cashBoxService) GetCashBoxByID(ctx context.Context, cashBoxID int64) (*domain.CashBox, error) {
	return s.cashBoxRepo.FindCashBoxByID(ctx, cashBoxID)
}

func (s *cashBoxService) ListCashBoxes(ctx context.Context, activeOnly bool) ([]domain.CashBox, error) {
	return s.cashBoxRepo.ListCashBoxes(ctx, activeOnly)
}

func (s *cashBoxService) UpdateCashBox(ctx context.Context, cashBoxID int64, req dto.UpdateCashBoxRequest, userID string) (*domain.CashBox, error) {
	box, err := s.cashBoxRepo.FindCashBoxByID(ctx, cashBoxID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		box.Name = *req.Name
	}
	if req.Notes != nil {
		box.Notes = *req.Notes
	}
	if req.IsActive != nil {
		box.IsActive = *req.IsActive
	}
	box.LastUpdatedAt = time.Now()
	box.LastUpdatedBy = userID

	if err := s.cashBoxRepo.UpdateCashBox(ctx, *box); err != nil {
		s.LogError(ctx, err, "Failed to update cash box", slog.Int64("cash_box_id", cashBoxID))
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "update", "cash_box", cashBoxID, fmt.Sprintf("updated cash box %s", box.Code))
	return box, nil
}

func (s *cashBoxService) DeleteCashBox(ctx context.Context, cashBoxID int64, userID string) error {
	box, err := s.cashBoxRepo.FindCashBoxByID(ctx, cashBoxID)
	if err != nil {
		return err
	}

	// The box and its full history go together; there is no partial path.
	if err := s.cashBoxRepo.DeleteCashBox(ctx, cashBoxID); err != nil {
		s.LogError(ctx, err, "Failed to delete cash box", slog.Int64("cash_box_id", cashBoxID))
		return err
	}

	s.auditSvc.Record(ctx, userID, "delete", "cash_box", cashBoxID, fmt.Sprintf("deleted cash box %s and its transactions", box.Code))
	s.LogInfo(ctx, "Cash box deleted", slog.Int64("cash_box_id", cashBoxID), slog.String("code", box.Code))
	return nil
}

// nextVoucherNumber advances the per-box voucher counter.
func (s *cashBoxService) nextVoucherNumber(ctx context.Context, box *domain.CashBox) (string, error) {
	n, err := s.sequenceRepo.Next(ctx, fmt.Sprintf("voucher:%d", box.CashBoxID), 0)
	if err != nil {
		return "", fmt.Errorf("failed to advance voucher counter: %w", err)
	}
	return fmt.Sprintf("%s-%06d", box.Code, n), nil
}

func (s *cashBoxService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.CashTransaction, error) {
	var txn *domain.CashTransaction

	for attempt := 0; ; attempt++ {
		box, err := s.cashBoxRepo.FindCashBoxByID(ctx, req.CashBoxID)
		if err != nil {
			return nil, err
		}
		if !box.IsActive {
			return nil, fmt.Errorf("%w: cash box %s is inactive", apperrors.ErrValidation, box.Code)
		}

		voucher, err := s.nextVoucherNumber(ctx, box)
		if err != nil {
			return nil, err
		}

		currency := req.Currency
		if currency == "" {
			currency = box.Currency
		}

		now := time.Now()
		candidate := domain.CashTransaction{
			VoucherNumber:      voucher,
			CashBoxID:          box.CashBoxID,
			Type:               req.Type,
			Amount:             req.Amount,
			Currency:           currency,
			ExchangeRate:       req.ExchangeRate,
			OriginalAmount:     req.OriginalAmount,
			TransactionDate:    req.TransactionDate,
			Month:              int(req.TransactionDate.Month()),
			Year:               req.TransactionDate.Year(),
			Category:           req.Category,
			Description:        req.Description,
			PartyName:          req.PartyName,
			PaymentMethod:      req.PaymentMethod,
			InstaPayCommission: req.InstaPayCommission,
			ReferenceNumber:    req.ReferenceNumber,
			Notes:              req.Notes,
			ReservationID:      req.ReservationID,
			PostingStatus:      domain.PostingPending,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if !candidate.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}

		candidate.BalanceBefore = box.CurrentBalance
		newBalance := box.CurrentBalance.Add(candidate.SignedEffect())
		if candidate.Type == domain.TxnExpense {
			effective := candidate.EffectiveAmount()
			if box.CurrentBalance.LessThan(effective) || newBalance.IsNegative() {
				return nil, fmt.Errorf("%w: balance %s is less than %s", apperrors.ErrInsufficientFunds, box.CurrentBalance, effective)
			}
		}
		candidate.BalanceAfter = newBalance

		err = s.cashBoxRepo.SaveTransactionWithBalance(ctx, &candidate, newBalance, box.Version)
		if err == nil {
			txn = &candidate
			break
		}
		if errors.Is(err, apperrors.ErrConcurrencyConflict) && attempt < maxBalanceRetries-1 {
			s.LogWarn(ctx, "Balance write lost the race, retrying", slog.Int64("cash_box_id", box.CashBoxID), slog.Int("attempt", attempt+1))
			continue
		}
		s.LogError(ctx, err, "Failed to save cash transaction", slog.Int64("cash_box_id", box.CashBoxID))
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "create", "cash_transaction", txn.TransactionID, fmt.Sprintf("%s %s on box %d, voucher %s", txn.Type, txn.Amount, txn.CashBoxID, txn.VoucherNumber))

	// The cash movement is committed; the ledger mirror must not undo it.
	s.postBestEffort(ctx, txn, userID)
	return txn, nil
}

// postBestEffort mirrors a committed transaction into the general ledger.
// Failure never propagates: the transaction stays flagged for the worker.
func (s *cashBoxService) postBestEffort(ctx context.Context, txn *domain.CashTransaction, userID string) {
	if _, err := s.journalSvc.PostCashTransaction(ctx, *txn, userID); err != nil {
		s.LogWarn(ctx, "Ledger posting failed, queueing retry",
			slog.Int64("transaction_id", txn.TransactionID),
			slog.String("error", err.Error()))

		if err := s.enqueuer.EnqueuePostCashTransaction(ctx, txn.TransactionID); err != nil {
			s.LogError(ctx, err, "Failed to enqueue posting retry", slog.Int64("transaction_id", txn.TransactionID))
			if err := s.cashBoxRepo.UpdatePostingStatus(ctx, txn.TransactionID, domain.PostingFailed); err != nil {
				s.LogError(ctx, err, "Failed to flag posting failure", slog.Int64("transaction_id", txn.TransactionID))
			} else {
				txn.PostingStatus = domain.PostingFailed
			}
		}
		return
	}

	if err := s.cashBoxRepo.UpdatePostingStatus(ctx, txn.TransactionID, domain.PostingPosted); err != nil {
		s.LogWarn(ctx, "Failed to flag posting success", slog.Int64("transaction_id", txn.TransactionID), slog.String("error", err.Error()))
		return
	}
	txn.PostingStatus = domain.PostingPosted
}

func (s *cashBoxService) GetTransactionByID(ctx context.Context, transactionID int64) (*domain.CashTransaction, error) {
	return s.cashBoxRepo.FindTransactionByID(ctx, transactionID)
}

func (s *cashBoxService) ListTransactions(ctx context.Context, filter portsrepo.TransactionListFilter) ([]domain.CashTransaction, error) {
	return s.cashBoxRepo.ListTransactions(ctx, filter)
}

func (s *cashBoxService) UpdateTransaction(ctx context.Context, transactionID int64, req dto.UpdateTransactionRequest, userID string) (*domain.CashTransaction, error) {
	var updated *domain.CashTransaction

	for attempt := 0; ; attempt++ {
		old, err := s.cashBoxRepo.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return nil, err
		}
		box, err := s.cashBoxRepo.FindCashBoxByID(ctx, old.CashBoxID)
		if err != nil {
			return nil, err
		}

		// Reverse the old effect, then validate and apply the new one.
		// Both land in a single write so the reverted state is never
		// durably observable.
		reverted := box.CurrentBalance.Sub(old.SignedEffect())

		candidate := *old
		candidate.Type = req.Type
		candidate.Amount = req.Amount
		if req.Currency != "" {
			candidate.Currency = req.Currency
		}
		candidate.ExchangeRate = req.ExchangeRate
		candidate.OriginalAmount = req.OriginalAmount
		candidate.TransactionDate = req.TransactionDate
		candidate.Month = int(req.TransactionDate.Month())
		candidate.Year = req.TransactionDate.Year()
		candidate.Category = req.Category
		candidate.Description = req.Description
		candidate.PartyName = req.PartyName
		candidate.PaymentMethod = req.PaymentMethod
		candidate.InstaPayCommission = req.InstaPayCommission
		candidate.ReferenceNumber = req.ReferenceNumber
		candidate.Notes = req.Notes
		candidate.LastUpdatedAt = time.Now()
		candidate.LastUpdatedBy = userID

		if !candidate.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}

		newBalance := reverted.Add(candidate.SignedEffect())
		if candidate.Type == domain.TxnExpense {
			effective := candidate.EffectiveAmount()
			if reverted.LessThan(effective) || newBalance.IsNegative() {
				return nil, fmt.Errorf("%w: reverted balance %s is less than %s", apperrors.ErrInsufficientFunds, reverted, effective)
			}
		}
		if newBalance.IsNegative() {
			return nil, fmt.Errorf("%w: update would leave balance at %s", apperrors.ErrInsufficientFunds, newBalance)
		}
		candidate.BalanceBefore = reverted
		candidate.BalanceAfter = newBalance

		err = s.cashBoxRepo.UpdateTransactionWithBalance(ctx, candidate, newBalance, box.Version)
		if err == nil {
			updated = &candidate
			break
		}
		if errors.Is(err, apperrors.ErrConcurrencyConflict) && attempt < maxBalanceRetries-1 {
			s.LogWarn(ctx, "Balance write lost the race, retrying", slog.Int64("cash_box_id", box.CashBoxID), slog.Int("attempt", attempt+1))
			continue
		}
		s.LogError(ctx, err, "Failed to update cash transaction", slog.Int64("transaction_id", transactionID))
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "update", "cash_transaction", transactionID, fmt.Sprintf("rewrote transaction %s", updated.VoucherNumber))

	// Refresh the ledger mirror to match the rewritten transaction.
	if err := s.journalSvc.UnpostReference(ctx, domain.RefCashTransaction, transactionID); err != nil {
		s.LogWarn(ctx, "Failed to remove stale ledger entry", slog.Int64("transaction_id", transactionID), slog.String("error", err.Error()))
	}
	s.postBestEffort(ctx, updated, userID)
	return updated, nil
}

func (s *cashBoxService) DeleteTransaction(ctx context.Context, transactionID int64, userID string) error {
	var deleted *domain.CashTransaction

	for attempt := 0; ; attempt++ {
		txn, err := s.cashBoxRepo.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		box, err := s.cashBoxRepo.FindCashBoxByID(ctx, txn.CashBoxID)
		if err != nil {
			return err
		}

		// Reversal is exactly symmetric to the original effect, commission
		// included, so delete after add restores the balance bit for bit.
		newBalance := box.CurrentBalance.Sub(txn.SignedEffect())
		if newBalance.IsNegative() {
			return fmt.Errorf("%w: reversing income %s would leave balance at %s", apperrors.ErrInsufficientFunds, txn.VoucherNumber, newBalance)
		}

		err = s.cashBoxRepo.SoftDeleteTransactionWithBalance(ctx, transactionID, box.CashBoxID, newBalance, box.Version, userID)
		if err == nil {
			deleted = txn
			break
		}
		if errors.Is(err, apperrors.ErrConcurrencyConflict) && attempt < maxBalanceRetries-1 {
			s.LogWarn(ctx, "Balance write lost the race, retrying", slog.Int64("cash_box_id", box.CashBoxID), slog.Int("attempt", attempt+1))
			continue
		}
		s.LogError(ctx, err, "Failed to delete cash transaction", slog.Int64("transaction_id", transactionID))
		return err
	}

	s.auditSvc.Record(ctx, userID, "delete", "cash_transaction", transactionID, fmt.Sprintf("deleted transaction %s", deleted.VoucherNumber))

	if err := s.journalSvc.UnpostReference(ctx, domain.RefCashTransaction, transactionID); err != nil {
		s.LogWarn(ctx, "Failed to remove ledger entry for deleted transaction", slog.Int64("transaction_id", transactionID), slog.String("error", err.Error()))
	}
	return nil
}

// RetryPosting re-attempts the ledger mirror of a transaction. Called by
// the background worker; an error here means the task should run again.
func (s *cashBoxService) RetryPosting(ctx context.Context, transactionID int64) error {
	txn, err := s.cashBoxRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Deleted in the meantime; nothing left to mirror.
			s.LogInfo(ctx, "Skipping posting retry for missing transaction", slog.Int64("transaction_id", transactionID))
			return nil
		}
		return err
	}
	if txn.PostingStatus == domain.PostingPosted {
		return nil
	}

	if _, err := s.journalSvc.PostCashTransaction(ctx, *txn, txn.CreatedBy); err != nil {
		if flagErr := s.cashBoxRepo.UpdatePostingStatus(ctx, transactionID, domain.PostingFailed); flagErr != nil {
			s.LogError(ctx, flagErr, "Failed to flag posting failure", slog.Int64("transaction_id", transactionID))
		}
		return err
	}
	return s.cashBoxRepo.UpdatePostingStatus(ctx, transactionID, domain.PostingPosted)
}

// MonthlyReport aggregates one calendar month of a cash box. Totals cover
// the home currency only; foreign sums show up as per-category annotations.
func (s *cashBoxService) MonthlyReport(ctx context.Context, cashBoxID int64, month, year int) (*domain.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range", apperrors.ErrValidation, month)
	}

	if _, err := s.cashBoxRepo.FindCashBoxByID(ctx, cashBoxID); err != nil {
		return nil, err
	}

	txns, err := s.cashBoxRepo.ListTransactions(ctx, portsrepo.TransactionListFilter{
		CashBoxID: &cashBoxID,
		Month:     &month,
		Year:      &year,
	})
	if err != nil {
		return nil, err
	}

	report := &domain.MonthlyReport{
		CashBoxID:    cashBoxID,
		Month:        month,
		Year:         year,
		MonthName:    time.Month(month).String(),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Transactions: txns,
	}

	type bucket struct {
		amount  decimal.Decimal
		count   int
		foreign map[string]decimal.Decimal
	}
	incomeCats := make(map[string]*bucket)
	expenseCats := make(map[string]*bucket)
	var incomeOrder, expenseOrder []string

	for _, txn := range txns {
		cats := incomeCats
		order := &incomeOrder
		amount := txn.Amount
		if txn.Type == domain.TxnExpense {
			cats = expenseCats
			order = &expenseOrder
			amount = txn.EffectiveAmount()
		}

		b, ok := cats[txn.Category]
		if !ok {
			b = &bucket{amount: decimal.Zero, foreign: make(map[string]decimal.Decimal)}
			cats[txn.Category] = b
			*order = append(*order, txn.Category)
		}
		b.count++

		if txn.Currency == s.homeCurrency {
			b.amount = b.amount.Add(amount)
			if txn.Type == domain.TxnIncome {
				report.TotalIncome = report.TotalIncome.Add(amount)
				report.IncomeTransactionCount++
			} else {
				report.TotalExpense = report.TotalExpense.Add(amount)
				report.ExpenseTransactionCount++
			}
		} else {
			existing, ok := b.foreign[txn.Currency]
			if !ok {
				existing = decimal.Zero
			}
			b.foreign[txn.Currency] = existing.Add(amount)
		}
	}

	report.NetProfit = report.TotalIncome.Sub(report.TotalExpense)

	summarize := func(order []string, cats map[string]*bucket, total decimal.Decimal) []domain.CategorySummary {
		out := make([]domain.CategorySummary, 0, len(order))
		for _, name := range order {
			b := cats[name]
			label := name
			for currency, sum := range b.foreign {
				label = fmt.Sprintf("%s (+ %s %s)", label, currency, sum)
			}
			pct := decimal.Zero
			if total.IsPositive() {
				pct = b.amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
			}
			out = append(out, domain.CategorySummary{
				Category:         label,
				Amount:           b.amount,
				TransactionCount: b.count,
				Percentage:       pct,
			})
		}
		return out
	}
	report.IncomeByCategory = summarize(incomeOrder, incomeCats, report.TotalIncome)
	report.ExpenseByCategory = summarize(expenseOrder, expenseCats, report.TotalExpense)

	return report, nil
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlas-voyages/accounting-backend/internal/apperrors"
	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	auditSvc     portssvc.AuditSvcFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, sequenceRepo portsrepo.SequenceRepository, auditSvc portssvc.AuditSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
		auditSvc:     auditSvc,
	}
}

// generateCode produces the next account code. Root codes live in a
// per-prefix counter seeded from the highest existing root code so
// pre-existing charts keep incrementing; child codes live in a
// per-parent counter seeded from the highest existing sibling segment.
func (s *accountService) generateCode(ctx context.Context, parent *domain.Account, accountType domain.AccountType) (string, error) {
	if parent == nil {
		prefix := accountType.CodePrefix()
		seed := int64(prefix*1000) - 1

		roots, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountListFilter{AccountType: &accountType})
		if err != nil {
			return "", fmt.Errorf("failed to list root accounts for code generation: %w", err)
		}
		for _, acc := range roots {
			if acc.ParentAccountID != nil {
				continue
			}
			n, err := strconv.ParseInt(acc.Code, 10, 64)
			if err != nil {
				continue // explicit non-numeric codes do not participate
			}
			if n > seed {
				seed = n
			}
		}

		next, err := s.sequenceRepo.Next(ctx, fmt.Sprintf("account:root:%d", prefix), seed)
		if err != nil {
			return "", fmt.Errorf("failed to advance root account counter: %w", err)
		}
		return strconv.FormatInt(next, 10), nil
	}

	var seed int64
	siblings, err := s.accountRepo.ListChildren(ctx, parent.AccountID)
	if err != nil {
		return "", fmt.Errorf("failed to list children for code generation: %w", err)
	}
	for _, sib := range siblings {
		segments := strings.Split(sib.Code, ".")
		n, err := strconv.ParseInt(segments[len(segments)-1], 10, 64)
		if err != nil {
			continue
		}
		if n > seed {
			seed = n
		}
	}

	next, err := s.sequenceRepo.Next(ctx, fmt.Sprintf("account:child:%d", parent.AccountID), seed)
	if err != nil {
		return "", fmt.Errorf("failed to advance child account counter: %w", err)
	}
	return fmt.Sprintf("%s.%d", parent.Code, next), nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	var parent *domain.Account
	accountType := req.AccountType
	level := 1
	if req.ParentAccountID != nil {
		var err error
		parent, err = s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("parent account lookup failed: %w", err)
		}
		// Children always carry their parent's type.
		accountType = parent.AccountType
		level = parent.Level + 1
	}

	code := ""
	if req.Code != nil && *req.Code != "" {
		code = *req.Code
		if existing, err := s.accountRepo.FindAccountByCode(ctx, code); err == nil && existing != nil {
			return nil, fmt.Errorf("%w: account code %q already exists", apperrors.ErrDuplicate, code)
		}
	} else {
		var err error
		code, err = s.generateCode(ctx, parent, accountType)
		if err != nil {
			return nil, err
		}
	}

	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}

	now := time.Now()
	account := domain.Account{
		Code:            code,
		Name:            req.Name,
		AccountType:     accountType,
		ParentAccountID: req.ParentAccountID,
		Level:           level,
		IsActive:        true,
		Notes:           req.Notes,
		OpeningBalance:  opening,
		CurrentBalance:  opening,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, &account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("code", code))
		return nil, err
	}

	if parent != nil && !parent.IsParent {
		parent.IsParent = true
		parent.LastUpdatedAt = now
		parent.LastUpdatedBy = userID
		if err := s.accountRepo.UpdateAccount(ctx, *parent); err != nil {
			s.LogError(ctx, err, "Failed to flag parent account", slog.Int64("parent_id", parent.AccountID))
			return nil, err
		}
	}

	s.auditSvc.Record(ctx, userID, "create", "account", account.AccountID, fmt.Sprintf("created account %s (%s)", account.Code, account.Name))
	s.LogInfo(ctx, "Account created", slog.Int64("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, code)
}

func (s *accountService) ListAccounts(ctx context.Context, req dto.ListAccountsRequest) ([]domain.Account, error) {
	filter := portsrepo.AccountListFilter{
		AccountType: req.AccountType,
		ActiveOnly:  req.ActiveOnly,
		Search:      req.Search,
	}
	if req.RootsOnly {
		// Roots are the accounts without a parent; the repository treats a
		// ParentID of zero as the "no parent" filter.
		zero := int64(0)
		filter.ParentID = &zero
	} else if req.ParentID != nil {
		filter.ParentID = req.ParentID
	}
	return s.accountRepo.ListAccounts(ctx, filter)
}

func (s *accountService) GetAccountTree(ctx context.Context) ([]domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountListFilter{})
	if err != nil {
		return nil, err
	}

	children := make(map[int64][]domain.Account)
	var roots []domain.Account
	for _, acc := range accounts {
		if acc.ParentAccountID == nil {
			roots = append(roots, acc)
		} else {
			children[*acc.ParentAccountID] = append(children[*acc.ParentAccountID], acc)
		}
	}

	var build func(acc domain.Account) domain.AccountNode
	build = func(acc domain.Account) domain.AccountNode {
		node := domain.AccountNode{Account: acc}
		for _, child := range children[acc.AccountID] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	nodes := make([]domain.AccountNode, len(roots))
	for i, root := range roots {
		nodes[i] = build(root)
	}
	return nodes, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID int64, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Notes != nil {
		account.Notes = *req.Notes
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.Int64("account_id", accountID))
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "update", "account", accountID, fmt.Sprintf("updated account %s", account.Code))
	return account, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID int64, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	childCount, err := s.accountRepo.CountChildren(ctx, accountID)
	if err != nil {
		return err
	}
	if childCount > 0 {
		return fmt.Errorf("%w: account %s still has %d child accounts", apperrors.ErrConflict, account.Code, childCount)
	}

	hasLines, err := s.accountRepo.HasJournalLines(ctx, accountID)
	if err != nil {
		return err
	}
	if hasLines {
		return fmt.Errorf("%w: account %s is referenced by journal entries", apperrors.ErrConflict, account.Code)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.Int64("account_id", accountID))
		return err
	}

	// The parent stops being a parent when its last child goes away.
	if account.ParentAccountID != nil {
		remaining, err := s.accountRepo.CountChildren(ctx, *account.ParentAccountID)
		if err == nil && remaining == 0 {
			if parent, err := s.accountRepo.FindAccountByID(ctx, *account.ParentAccountID); err == nil {
				parent.IsParent = false
				parent.LastUpdatedAt = time.Now()
				parent.LastUpdatedBy = userID
				if err := s.accountRepo.UpdateAccount(ctx, *parent); err != nil {
					s.LogWarn(ctx, "Failed to unflag parent account", slog.Int64("parent_id", parent.AccountID), slog.String("error", err.Error()))
				}
			}
		}
	}

	s.auditSvc.Record(ctx, userID, "delete", "account", accountID, fmt.Sprintf("deleted account %s", account.Code))
	s.LogInfo(ctx, "Account deleted", slog.Int64("account_id", accountID), slog.String("code", account.Code))
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/atlas-voyages/accounting-backend/internal/apperrors"
	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

// reservationService orchestrates the reservation lifecycle and its cash
// and ledger side effects.
type reservationService struct {
	BaseService
	reservationRepo portsrepo.ReservationRepositoryFacade
	sequenceRepo    portsrepo.SequenceRepository
	cashBoxSvc      portssvc.CashBoxSvcFacade
	journalSvc      portssvc.JournalPosterSvc
	auditSvc        portssvc.AuditSvcFacade
}

// NewReservationService creates a new reservation service.
func NewReservationService(reservationRepo portsrepo.ReservationRepositoryFacade, sequenceRepo portsrepo.SequenceRepository, cashBoxSvc portssvc.CashBoxSvcFacade, journalSvc portssvc.JournalPosterSvc, auditSvc portssvc.AuditSvcFacade) portssvc.ReservationSvcFacade {
	return &reservationService{
		reservationRepo: reservationRepo,
		sequenceRepo:    sequenceRepo,
		cashBoxSvc:      cashBoxSvc,
		journalSvc:      journalSvc,
		auditSvc:        auditSvc,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, req dto.CreateReservationRequest, userID string) (*domain.Reservation, error) {
	n, err := s.sequenceRepo.Next(ctx, "reservation", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to advance reservation counter: %w", err)
	}

	now := time.Now()
	r := domain.Reservation{
		ReservationNumber: fmt.Sprintf("RES-%06d", n),
		CustomerName:      req.CustomerName,
		ServiceType:       req.ServiceType,
		ReservationDate:   req.ReservationDate,
		SellingPrice:      req.SellingPrice,
		CostPrice:         req.CostPrice,
		Status:            domain.StatusDraft,
		Notes:             req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.reservationRepo.SaveReservation(ctx, &r); err != nil {
		s.LogError(ctx, err, "Failed to save reservation")
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "create", "reservation", r.ReservationID, fmt.Sprintf("created reservation %s for %s", r.ReservationNumber, r.CustomerName))
	return &r, nil
}

func (s *reservationService) GetReservationByID(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	return s.reservationRepo.FindReservationByID(ctx, reservationID)
}

func (s *reservationService) ListReservations(ctx context.Context, filter portsrepo.BookingListFilter) ([]domain.Reservation, error) {
	return s.reservationRepo.ListReservations(ctx, filter)
}

func (s *reservationService) UpdateReservation(ctx context.Context, reservationID int64, req dto.UpdateReservationRequest, userID string) (*domain.Reservation, error) {
	r, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: reservation %s is %s", apperrors.ErrConflict, r.ReservationNumber, r.Status)
	}

	if req.CustomerName != nil {
		r.CustomerName = *req.CustomerName
	}
	if req.ServiceType != nil {
		r.ServiceType = *req.ServiceType
	}
	if req.ReservationDate != nil {
		r.ReservationDate = *req.ReservationDate
	}
	if req.SellingPrice != nil {
		r.SellingPrice = *req.SellingPrice
	}
	if req.CostPrice != nil {
		r.CostPrice = *req.CostPrice
	}
	if req.Notes != nil {
		r.Notes = *req.Notes
	}
	r.LastUpdatedAt = time.Now()
	r.LastUpdatedBy = userID

	if err := s.reservationRepo.UpdateReservation(ctx, *r); err != nil {
		s.LogError(ctx, err, "Failed to update reservation", slog.Int64("reservation_id", reservationID))
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "update", "reservation", reservationID, fmt.Sprintf("updated reservation %s", r.ReservationNumber))
	return r, nil
}

func (s *reservationService) ChangeReservationStatus(ctx context.Context, reservationID int64, req dto.ChangeStatusRequest, userID string) (*domain.Reservation, error) {
	r, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, req.Status)
	}
	if !r.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, r.Status, req.Status)
	}

	var collectedTxnID *int64

	switch req.Status {
	case domain.StatusConfirmed:
		if req.CashBoxID != nil {
			method := req.PaymentMethod
			if method == "" {
				method = domain.MethodCash
			}
			txn, err := s.cashBoxSvc.CreateTransaction(ctx, dto.CreateTransactionRequest{
				CashBoxID:          *req.CashBoxID,
				Type:               domain.TxnIncome,
				Amount:             r.SellingPrice,
				TransactionDate:    time.Now(),
				Category:           r.ServiceType,
				Description:        fmt.Sprintf("Payment for reservation %s", r.ReservationNumber),
				PartyName:          r.CustomerName,
				PaymentMethod:      method,
				InstaPayCommission: req.InstaPayCommission,
				ReferenceNumber:    r.ReservationNumber,
				ReservationID:      &r.ReservationID,
			}, userID)
			if err != nil {
				return nil, err
			}
			r.CashBoxID = req.CashBoxID
			r.CashTransactionID = &txn.TransactionID
			collectedTxnID = &txn.TransactionID
		}
	case domain.StatusCancelled:
		if r.CashTransactionID != nil {
			err := s.cashBoxSvc.DeleteTransaction(ctx, *r.CashTransactionID, userID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			r.CashTransactionID = nil
			r.CashBoxID = nil
		}
	}

	previous := r.Status
	r.Status = req.Status
	r.LastUpdatedAt = time.Now()
	r.LastUpdatedBy = userID

	if err := s.reservationRepo.UpdateReservation(ctx, *r); err != nil {
		s.LogError(ctx, err, "Failed to persist reservation status", slog.Int64("reservation_id", reservationID))
		// The payment committed but the link to it did not; undo the
		// payment so a retried Confirm does not collect twice.
		if collectedTxnID != nil {
			if delErr := s.cashBoxSvc.DeleteTransaction(ctx, *collectedTxnID, userID); delErr != nil {
				s.LogError(ctx, delErr, "Failed to reverse payment after status persist failure",
					slog.Int64("reservation_id", reservationID),
					slog.Int64("transaction_id", *collectedTxnID))
			}
		}
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "status_change", "reservation", reservationID, fmt.Sprintf("%s: %s -> %s", r.ReservationNumber, previous, r.Status))
	s.LogInfo(ctx, "Reservation status changed",
		slog.Int64("reservation_id", reservationID),
		slog.String("from", string(previous)),
		slog.String("to", string(r.Status)))

	// The reservation itself is durable; the revenue entry follows
	// best-effort, like every other ledger mirror.
	if r.Status == domain.StatusConfirmed && r.CashBoxID != nil {
		if _, err := s.journalSvc.PostReservation(ctx, *r, userID); err != nil {
			s.LogWarn(ctx, "Reservation revenue posting failed", slog.Int64("reservation_id", reservationID), slog.String("error", err.Error()))
		}
	}
	return r, nil
}

func (s *reservationService) DeleteReservation(ctx context.Context, reservationID int64, userID string) error {
	r, err := s.reservationRepo.FindReservationByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if r.Status != domain.StatusDraft && r.Status != domain.StatusCancelled {
		return fmt.Errorf("%w: reservation %s is %s; only Draft or Cancelled reservations can be deleted", apperrors.ErrConflict, r.ReservationNumber, r.Status)
	}

	if err := s.reservationRepo.DeleteReservation(ctx, reservationID); err != nil {
		s.LogError(ctx, err, "Failed to delete reservation", slog.Int64("reservation_id", reservationID))
		return err
	}

	s.auditSvc.Record(ctx, userID, "delete", "reservation", reservationID, fmt.Sprintf("deleted reservation %s", r.ReservationNumber))
	return nil
}

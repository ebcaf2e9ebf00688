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

// tripBookingService orchestrates the trip booking lifecycle. The state
// machine and side effects mirror the reservation service.
type tripBookingService struct {
	BaseService
	tripRepo     portsrepo.TripBookingRepositoryFacade
	sequenceRepo portsrepo.SequenceRepository
	cashBoxSvc   portssvc.CashBoxSvcFacade
	journalSvc   portssvc.JournalPosterSvc
	auditSvc     portssvc.AuditSvcFacade
}

// NewTripBookingService creates a new trip booking service.
func NewTripBookingService(tripRepo portsrepo.TripBookingRepositoryFacade, sequenceRepo portsrepo.SequenceRepository, cashBoxSvc portssvc.CashBoxSvcFacade, journalSvc portssvc.JournalPosterSvc, auditSvc portssvc.AuditSvcFacade) portssvc.TripBookingSvcFacade {
	return &tripBookingService{
		tripRepo:     tripRepo,
		sequenceRepo: sequenceRepo,
		cashBoxSvc:   cashBoxSvc,
		journalSvc:   journalSvc,
		auditSvc:     auditSvc,
	}
}

func (s *tripBookingService) CreateTripBooking(ctx context.Context, req dto.CreateTripBookingRequest, userID string) (*domain.TripBooking, error) {
	n, err := s.sequenceRepo.Next(ctx, "trip_booking", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to advance trip booking counter: %w", err)
	}

	now := time.Now()
	b := domain.TripBooking{
		BookingNumber: fmt.Sprintf("TRP-%06d", n),
		TripName:      req.TripName,
		CustomerName:  req.CustomerName,
		BookingDate:   req.BookingDate,
		Seats:         req.Seats,
		TotalAmount:   req.TotalAmount,
		Status:        domain.StatusDraft,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.tripRepo.SaveTripBooking(ctx, &b); err != nil {
		s.LogError(ctx, err, "Failed to save trip booking")
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "create", "trip_booking", b.TripBookingID, fmt.Sprintf("created booking %s for %s", b.BookingNumber, b.CustomerName))
	return &b, nil
}

func (s *tripBookingService) GetTripBookingByID(ctx context.Context, tripBookingID int64) (*domain.TripBooking, error) {
	return s.tripRepo.FindTripBookingByID(ctx, tripBookingID)
}

func (s *tripBookingService) ListTripBookings(ctx context.Context, filter portsrepo.BookingListFilter) ([]domain.TripBooking, error) {
	return s.tripRepo.ListTripBookings(ctx, filter)
}

func (s *tripBookingService) UpdateTripBooking(ctx context.Context, tripBookingID int64, req dto.UpdateTripBookingRequest, userID string) (*domain.TripBooking, error) {
	b, err := s.tripRepo.FindTripBookingByID(ctx, tripBookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: booking %s is %s", apperrors.ErrConflict, b.BookingNumber, b.Status)
	}

	if req.TripName != nil {
		b.TripName = *req.TripName
	}
	if req.CustomerName != nil {
		b.CustomerName = *req.CustomerName
	}
	if req.BookingDate != nil {
		b.BookingDate = *req.BookingDate
	}
	if req.Seats != nil {
		if *req.Seats < 1 {
			return nil, fmt.Errorf("%w: seats must be at least 1", apperrors.ErrValidation)
		}
		b.Seats = *req.Seats
	}
	if req.TotalAmount != nil {
		b.TotalAmount = *req.TotalAmount
	}
	if req.Notes != nil {
		b.Notes = *req.Notes
	}
	b.LastUpdatedAt = time.Now()
	b.LastUpdatedBy = userID

	if err := s.tripRepo.UpdateTripBooking(ctx, *b); err != nil {
		s.LogError(ctx, err, "Failed to update trip booking", slog.Int64("trip_booking_id", tripBookingID))
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "update", "trip_booking", tripBookingID, fmt.Sprintf("updated booking %s", b.BookingNumber))
	return b, nil
}

func (s *tripBookingService) ChangeTripBookingStatus(ctx context.Context, tripBookingID int64, req dto.ChangeStatusRequest, userID string) (*domain.TripBooking, error) {
	b, err := s.tripRepo.FindTripBookingByID(ctx, tripBookingID)
	if err != nil {
		return nil, err
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, req.Status)
	}
	if !b.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, b.Status, req.Status)
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
				Amount:             b.TotalAmount,
				TransactionDate:    time.Now(),
				Category:           "Trips",
				Description:        fmt.Sprintf("Payment for trip booking %s (%s)", b.BookingNumber, b.TripName),
				PartyName:          b.CustomerName,
				PaymentMethod:      method,
				InstaPayCommission: req.InstaPayCommission,
				ReferenceNumber:    b.BookingNumber,
			}, userID)
			if err != nil {
				return nil, err
			}
			b.CashBoxID = req.CashBoxID
			b.CashTransactionID = &txn.TransactionID
			collectedTxnID = &txn.TransactionID
		}
	case domain.StatusCancelled:
		if b.CashTransactionID != nil {
			err := s.cashBoxSvc.DeleteTransaction(ctx, *b.CashTransactionID, userID)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			b.CashTransactionID = nil
			b.CashBoxID = nil
		}
	}

	previous := b.Status
	b.Status = req.Status
	b.LastUpdatedAt = time.Now()
	b.LastUpdatedBy = userID

	if err := s.tripRepo.UpdateTripBooking(ctx, *b); err != nil {
		s.LogError(ctx, err, "Failed to persist trip booking status", slog.Int64("trip_booking_id", tripBookingID))
		// The payment committed but the link to it did not; undo the
		// payment so a retried Confirm does not collect twice.
		if collectedTxnID != nil {
			if delErr := s.cashBoxSvc.DeleteTransaction(ctx, *collectedTxnID, userID); delErr != nil {
				s.LogError(ctx, delErr, "Failed to reverse payment after status persist failure",
					slog.Int64("trip_booking_id", tripBookingID),
					slog.Int64("transaction_id", *collectedTxnID))
			}
		}
		return nil, err
	}

	s.auditSvc.Record(ctx, userID, "status_change", "trip_booking", tripBookingID, fmt.Sprintf("%s: %s -> %s", b.BookingNumber, previous, b.Status))

	if b.Status == domain.StatusConfirmed && b.CashBoxID != nil {
		if _, err := s.journalSvc.PostTripBooking(ctx, *b, userID); err != nil {
			s.LogWarn(ctx, "Trip booking revenue posting failed", slog.Int64("trip_booking_id", tripBookingID), slog.String("error", err.Error()))
		}
	}
	return b, nil
}

func (s *tripBookingService) DeleteTripBooking(ctx context.Context, tripBookingID int64, userID string) error {
	b, err := s.tripRepo.FindTripBookingByID(ctx, tripBookingID)
	if err != nil {
		return err
	}
	if b.Status != domain.StatusDraft && b.Status != domain.StatusCancelled {
		return fmt.Errorf("%w: booking %s is %s; only Draft or Cancelled bookings can be deleted", apperrors.ErrConflict, b.BookingNumber, b.Status)
	}

	if err := s.tripRepo.DeleteTripBooking(ctx, tripBookingID); err != nil {
		s.LogError(ctx, err, "Failed to delete trip booking", slog.Int64("trip_booking_id", tripBookingID))
		return err
	}

	s.auditSvc.Record(ctx, userID, "delete", "trip_booking", tripBookingID, fmt.Sprintf("deleted booking %s", b.BookingNumber))
	return nil
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/atlas-voyages/accounting-backend/internal/apperrors"
	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/core/services"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
)

type ReservationServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockReservationRepository
	mockSequence *MockSequenceRepository
	mockCashBox  *MockCashBoxService
	mockPoster   *MockJournalPoster
	service      portssvc.ReservationSvcFacade
}

func (suite *ReservationServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReservationRepository)
	suite.mockSequence = new(MockSequenceRepository)
	suite.mockCashBox = new(MockCashBoxService)
	suite.mockPoster = new(MockJournalPoster)
	suite.service = services.NewReservationService(
		suite.mockRepo,
		suite.mockSequence,
		suite.mockCashBox,
		suite.mockPoster,
		stubAuditService{},
	)
}

func draftReservation() *domain.Reservation {
	return &domain.Reservation{
		ReservationID:     5,
		ReservationNumber: "RES-000005",
		CustomerName:      "Ahmed Samir",
		ServiceType:       "Hotel",
		ReservationDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		SellingPrice:      decimal.NewFromInt(4500),
		CostPrice:         decimal.NewFromInt(3800),
		Status:            domain.StatusDraft,
	}
}

func (suite *ReservationServiceTestSuite) TestCreateReservation_StartsInDraft() {
	ctx := context.Background()

	suite.mockSequence.On("Next", ctx, "reservation", int64(0)).Return(int64(5), nil).Once()
	suite.mockRepo.On("SaveReservation", ctx, mock.AnythingOfType("*domain.Reservation")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Reservation).ReservationID = 5
		}).Return(nil).Once()

	r, err := suite.service.CreateReservation(ctx, dto.CreateReservationRequest{
		CustomerName:    "Ahmed Samir",
		ServiceType:     "Hotel",
		ReservationDate: time.Now(),
		SellingPrice:    decimal.NewFromInt(4500),
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal("RES-000005", r.ReservationNumber)
	suite.Equal(domain.StatusDraft, r.Status)
	suite.Nil(r.CashBoxID)
	suite.Nil(r.CashTransactionID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReservationServiceTestSuite) TestConfirm_CollectsPaymentAndPostsRevenue() {
	ctx := context.Background()
	r := draftReservation()
	boxID := int64(1)

	createdTxn := &domain.CashTransaction{TransactionID: 88, CashBoxID: boxID}

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()
	suite.mockCashBox.On("CreateTransaction", ctx, mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return req.CashBoxID == boxID &&
			req.Type == domain.TxnIncome &&
			req.Amount.Equal(decimal.NewFromInt(4500)) &&
			req.Category == "Hotel" &&
			req.ReferenceNumber == "RES-000005" &&
			req.ReservationID != nil && *req.ReservationID == 5
	}), "user-1").Return(createdTxn, nil).Once()
	suite.mockRepo.On("UpdateReservation", ctx, mock.MatchedBy(func(saved domain.Reservation) bool {
		return saved.Status == domain.StatusConfirmed &&
			saved.CashBoxID != nil && *saved.CashBoxID == boxID &&
			saved.CashTransactionID != nil && *saved.CashTransactionID == 88
	})).Return(nil).Once()
	suite.mockPoster.On("PostReservation", ctx, mock.AnythingOfType("domain.Reservation"), "user-1").
		Return(&domain.JournalEntry{}, nil).Once()

	updated, err := suite.service.ChangeReservationStatus(ctx, 5, dto.ChangeStatusRequest{
		Status:        domain.StatusConfirmed,
		CashBoxID:     &boxID,
		PaymentMethod: domain.MethodCash,
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusConfirmed, updated.Status)
	suite.Require().NotNil(updated.CashTransactionID)
	suite.Equal(int64(88), *updated.CashTransactionID)
	suite.mockCashBox.AssertExpectations(suite.T())
	suite.mockPoster.AssertExpectations(suite.T())
}

func (suite *ReservationServiceTestSuite) TestConfirm_PersistFailureReversesPayment() {
	ctx := context.Background()
	r := draftReservation()
	boxID := int64(1)

	createdTxn := &domain.CashTransaction{TransactionID: 88, CashBoxID: boxID}

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()
	suite.mockCashBox.On("CreateTransaction", ctx, mock.AnythingOfType("dto.CreateTransactionRequest"), "user-1").
		Return(createdTxn, nil).Once()
	suite.mockRepo.On("UpdateReservation", ctx, mock.AnythingOfType("domain.Reservation")).
		Return(assert.AnError).Once()
	// The committed payment is rolled back so a retried Confirm does not
	// collect twice.
	suite.mockCashBox.On("DeleteTransaction", ctx, int64(88), "user-1").Return(nil).Once()

	updated, err := suite.service.ChangeReservationStatus(ctx, 5, dto.ChangeStatusRequest{
		Status:    domain.StatusConfirmed,
		CashBoxID: &boxID,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, assert.AnError)
	suite.mockCashBox.AssertExpectations(suite.T())
	suite.mockPoster.AssertNotCalled(suite.T(), "PostReservation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationServiceTestSuite) TestConfirm_WithoutCashBoxSkipsPayment() {
	ctx := context.Background()
	r := draftReservation()

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()
	suite.mockRepo.On("UpdateReservation", ctx, mock.AnythingOfType("domain.Reservation")).Return(nil).Once()

	updated, err := suite.service.ChangeReservationStatus(ctx, 5, dto.ChangeStatusRequest{
		Status: domain.StatusConfirmed,
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusConfirmed, updated.Status)
	suite.Nil(updated.CashTransactionID)
	suite.mockCashBox.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	suite.mockPoster.AssertNotCalled(suite.T(), "PostReservation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationServiceTestSuite) TestCancel_ReversesLinkedTransaction() {
	ctx := context.Background()
	boxID := int64(1)
	txnID := int64(88)
	r := draftReservation()
	r.Status = domain.StatusConfirmed
	r.CashBoxID = &boxID
	r.CashTransactionID = &txnID

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()
	suite.mockCashBox.On("DeleteTransaction", ctx, txnID, "user-1").Return(nil).Once()
	suite.mockRepo.On("UpdateReservation", ctx, mock.MatchedBy(func(saved domain.Reservation) bool {
		return saved.Status == domain.StatusCancelled &&
			saved.CashBoxID == nil && saved.CashTransactionID == nil
	})).Return(nil).Once()

	updated, err := suite.service.ChangeReservationStatus(ctx, 5, dto.ChangeStatusRequest{
		Status: domain.StatusCancelled,
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, updated.Status)
	suite.mockCashBox.AssertExpectations(suite.T())
}

func (suite *ReservationServiceTestSuite) TestCancel_ToleratesAlreadyDeletedTransaction() {
	ctx := context.Background()
	boxID := int64(1)
	txnID := int64(88)
	r := draftReservation()
	r.Status = domain.StatusConfirmed
	r.CashBoxID = &boxID
	r.CashTransactionID = &txnID

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()
	suite.mockCashBox.On("DeleteTransaction", ctx, txnID, "user-1").Return(apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpdateReservation", ctx, mock.AnythingOfType("domain.Reservation")).Return(nil).Once()

	updated, err := suite.service.ChangeReservationStatus(ctx, 5, dto.ChangeStatusRequest{
		Status: domain.StatusCancelled,
	}, "user-1")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, updated.Status)
}

func (suite *ReservationServiceTestSuite) TestChangeStatus_RejectsIllegalTransition() {
	ctx := context.Background()
	r := draftReservation()
	r.Status = domain.StatusCompleted

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()

	updated, err := suite.service.ChangeReservationStatus(ctx, 5, dto.ChangeStatusRequest{
		Status: domain.StatusConfirmed,
	}, "user-1")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateReservation", mock.Anything, mock.Anything)
}

func (suite *ReservationServiceTestSuite) TestChangeStatus_RejectsDraftToCompleted() {
	ctx := context.Background()
	r := draftReservation()

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()

	_, err := suite.service.ChangeReservationStatus(ctx, 5, dto.ChangeStatusRequest{
		Status: domain.StatusCompleted,
	}, "user-1")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *ReservationServiceTestSuite) TestUpdateReservation_RejectsTerminal() {
	ctx := context.Background()
	r := draftReservation()
	r.Status = domain.StatusCancelled

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()

	name := "New Name"
	updated, err := suite.service.UpdateReservation(ctx, 5, dto.UpdateReservationRequest{CustomerName: &name}, "user-1")

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ReservationServiceTestSuite) TestDeleteReservation_RejectsConfirmed() {
	ctx := context.Background()
	r := draftReservation()
	r.Status = domain.StatusConfirmed

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()

	err := suite.service.DeleteReservation(ctx, 5, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteReservation", mock.Anything, mock.Anything)
}

func (suite *ReservationServiceTestSuite) TestDeleteReservation_DraftSucceeds() {
	ctx := context.Background()
	r := draftReservation()

	suite.mockRepo.On("FindReservationByID", ctx, int64(5)).Return(r, nil).Once()
	suite.mockRepo.On("DeleteReservation", ctx, int64(5)).Return(nil).Once()

	suite.NoError(suite.service.DeleteReservation(ctx, 5, "user-1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestReservationService(t *testing.T) {
	suite.Run(t, new(ReservationServiceTestSuite))
}

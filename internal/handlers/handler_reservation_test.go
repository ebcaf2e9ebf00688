package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/atlas-voyages/accounting-backend/internal/apperrors"
	"github.com/atlas-voyages/accounting-backend/internal/core/domain"
	portsrepo "github.com/atlas-voyages/accounting-backend/internal/core/ports/repositories"
	portssvc "github.com/atlas-voyages/accounting-backend/internal/core/ports/services"
	"github.com/atlas-voyages/accounting-backend/internal/dto"
	"github.com/atlas-voyages/accounting-backend/internal/handlers"
	"github.com/atlas-voyages/accounting-backend/internal/middleware"
)

// --- Mock ReservationService ---

type MockReservationService struct {
	mock.Mock
}

var _ portssvc.ReservationSvcFacade = (*MockReservationService)(nil)

func (m *MockReservationService) CreateReservation(ctx context.Context, req dto.CreateReservationRequest, userID string) (*domain.Reservation, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservationByID(ctx context.Context, reservationID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ListReservations(ctx context.Context, filter portsrepo.BookingListFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationService) UpdateReservation(ctx context.Context, reservationID int64, req dto.UpdateReservationRequest, userID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ChangeReservationStatus(ctx context.Context, reservationID int64, req dto.ChangeStatusRequest, userID string) (*domain.Reservation, error) {
	args := m.Called(ctx, reservationID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) DeleteReservation(ctx context.Context, reservationID int64, userID string) error {
	args := m.Called(ctx, reservationID, userID)
	return args.Error(0)
}

// --- Test Suite ---

type ReservationHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockSvc   *MockReservationService
	jwtSecret string
}

func (suite *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockSvc = new(MockReservationService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterReservationRoutes(v1, suite.mockSvc)
}

func (suite *ReservationHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "accounting-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ReservationHandlerTestSuite) doRequest(method, url string, body any, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func confirmedReservation() *domain.Reservation {
	boxID := int64(1)
	txnID := int64(9)
	return &domain.Reservation{
		ReservationID:     5,
		ReservationNumber: "RES-000005",
		CustomerName:      "Mona Lotfy",
		ServiceType:       "Hotel",
		ReservationDate:   time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		SellingPrice:      decimal.NewFromInt(4500),
		CostPrice:         decimal.NewFromInt(3800),
		Status:            domain.StatusConfirmed,
		CashBoxID:         &boxID,
		CashTransactionID: &txnID,
	}
}

// --- Test Cases ---

func (suite *ReservationHandlerTestSuite) TestCreateReservation_Success() {
	created := confirmedReservation()
	created.Status = domain.StatusDraft
	created.CashBoxID = nil
	created.CashTransactionID = nil

	suite.mockSvc.On("CreateReservation", mock.Anything, mock.MatchedBy(func(req dto.CreateReservationRequest) bool {
		return req.CustomerName == "Mona Lotfy" && req.SellingPrice.Equal(decimal.NewFromInt(4500))
	}), "user-1").Return(created, nil).Once()

	body := dto.CreateReservationRequest{
		CustomerName:    "Mona Lotfy",
		ServiceType:     "Hotel",
		ReservationDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		SellingPrice:    decimal.NewFromInt(4500),
		CostPrice:       decimal.NewFromInt(3800),
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/reservations", body, "user-1")

	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.ReservationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("RES-000005", resp.ReservationNumber)
	suite.Equal(domain.StatusDraft, resp.Status)
	suite.Nil(resp.CashBoxID)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestCreateReservation_MissingFields() {
	body := map[string]any{"customerName": "Mona Lotfy"}

	w := suite.doRequest(http.MethodPost, "/api/v1/reservations", body, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "CreateReservation", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationHandlerTestSuite) TestChangeStatus_ConfirmWithPayment() {
	boxID := int64(1)

	suite.mockSvc.On("ChangeReservationStatus", mock.Anything, int64(5), mock.MatchedBy(func(req dto.ChangeStatusRequest) bool {
		return req.Status == domain.StatusConfirmed && req.CashBoxID != nil && *req.CashBoxID == 1
	}), "user-1").Return(confirmedReservation(), nil).Once()

	body := dto.ChangeStatusRequest{
		Status:        domain.StatusConfirmed,
		CashBoxID:     &boxID,
		PaymentMethod: domain.MethodCash,
	}

	w := suite.doRequest(http.MethodPost, "/api/v1/reservations/5/status", body, "user-1")

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.ReservationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(domain.StatusConfirmed, resp.Status)
	suite.Require().NotNil(resp.CashTransactionID)
	suite.Equal(int64(9), *resp.CashTransactionID)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestChangeStatus_InvalidTransitionMapsTo409() {
	suite.mockSvc.On("ChangeReservationStatus", mock.Anything, int64(5), mock.Anything, "user-1").
		Return(nil, apperrors.ErrInvalidTransition).Once()

	body := dto.ChangeStatusRequest{Status: domain.StatusDraft}

	w := suite.doRequest(http.MethodPost, "/api/v1/reservations/5/status", body, "user-1")

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ReservationHandlerTestSuite) TestChangeStatus_UnknownStatusRejected() {
	body := map[string]any{"status": "Archived"}

	w := suite.doRequest(http.MethodPost, "/api/v1/reservations/5/status", body, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "ChangeReservationStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReservationHandlerTestSuite) TestListReservations_StatusFilter() {
	confirmed := domain.StatusConfirmed

	suite.mockSvc.On("ListReservations", mock.Anything, mock.MatchedBy(func(f portsrepo.BookingListFilter) bool {
		return f.Status != nil && *f.Status == confirmed && f.Limit == 50
	})).Return([]domain.Reservation{*confirmedReservation()}, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/reservations?status=Confirmed", nil, "user-1")

	suite.Equal(http.StatusOK, w.Code)

	var resp []dto.ReservationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 1)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestListReservations_InvalidStatusFilter() {
	w := suite.doRequest(http.MethodGet, "/api/v1/reservations?status=Bogus", nil, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertNotCalled(suite.T(), "ListReservations", mock.Anything, mock.Anything)
}

func (suite *ReservationHandlerTestSuite) TestDeleteReservation_Success() {
	suite.mockSvc.On("DeleteReservation", mock.Anything, int64(5), "user-1").Return(nil).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/reservations/5", nil, "user-1")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *ReservationHandlerTestSuite) TestDeleteReservation_ConfirmedIsRejected() {
	suite.mockSvc.On("DeleteReservation", mock.Anything, int64(5), "user-1").
		Return(apperrors.ErrConflict).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/reservations/5", nil, "user-1")

	suite.Equal(http.StatusConflict, w.Code)
}

func TestReservationHandler(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

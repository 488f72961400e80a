package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/balance_updater/internal/apperrors"
	"github.com/SscSPs/balance_updater/internal/core/domain"
	portssvc "github.com/SscSPs/balance_updater/internal/core/ports/services"
	"github.com/SscSPs/balance_updater/internal/dto"
	"github.com/SscSPs/balance_updater/internal/handlers"
	"github.com/SscSPs/balance_updater/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetCurrentBalance(ctx context.Context) (domain.CurrentBalance, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.CurrentBalance), args.Error(1)
}

func (m *MockBalanceService) ListBalanceHistory(ctx context.Context, params dto.ListBalancesParams) (*dto.ListBalancesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListBalancesResponse), args.Error(1)
}

func (m *MockBalanceService) SubmitBalance(ctx context.Context, rawInput string, operatorID string) (*domain.BalanceRecord, error) {
	args := m.Called(ctx, rawInput, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceRecord), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.BalanceSvcFacade = (*MockBalanceService)(nil)

// --- Test Suite ---
type BalanceHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockBalanceService *MockBalanceService
	jwtSecret          string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *BalanceHandlerTestSuite) generateTestToken(operatorID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "balance-test",
		Subject:   operatorID,
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

func (suite *BalanceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(dto.RegisterValidators())
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockBalanceService = new(MockBalanceService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterBalanceRoutes(v1, suite.mockBalanceService, nil)
}

func (suite *BalanceHandlerTestSuite) TearDownTest() {
	suite.mockBalanceService.AssertExpectations(suite.T())
}

func (suite *BalanceHandlerTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken("operator"))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func TestBalanceHandler(t *testing.T) {
	suite.Run(t, new(BalanceHandlerTestSuite))
}

// --- Test Cases ---

func (suite *BalanceHandlerTestSuite) TestGetCurrentBalance_Success() {
	day := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	suite.mockBalanceService.On("GetCurrentBalance", mock.Anything).Return(domain.CurrentBalance{
		AccountName: "Voya 401(k)",
		Amount:      decimal.RequireFromString("12345.67"),
		RecordDate:  &day,
		HasData:     true,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/balance", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CurrentBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.HasData)
	suite.Equal("$12,345.67", resp.Formatted)
	suite.Require().NotNil(resp.RecordDate)
	suite.Equal("2024-03-09", *resp.RecordDate)
}

func (suite *BalanceHandlerTestSuite) TestGetCurrentBalance_NoData() {
	suite.mockBalanceService.On("GetCurrentBalance", mock.Anything).Return(domain.NoBalance("Voya 401(k)"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/balance", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.CurrentBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.False(resp.HasData)
	suite.Nil(resp.Amount)
	suite.Equal("$0.00", resp.Formatted)
}

func (suite *BalanceHandlerTestSuite) TestGetCurrentBalance_StoreDownShowsErrorIndicator() {
	suite.mockBalanceService.On("GetCurrentBalance", mock.Anything).
		Return(domain.CurrentBalance{}, apperrors.ErrConnectionFailure).Once()

	w := suite.do(http.MethodGet, "/api/v1/balance", "")

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	var resp dto.CurrentBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Error", resp.Formatted)
}

func (suite *BalanceHandlerTestSuite) TestSubmitBalance_Created() {
	rec := &domain.BalanceRecord{
		RecordID:    "r1",
		AccountName: "Voya 401(k)",
		Amount:      decimal.RequireFromString("12345.67"),
		RecordDate:  time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
		AuditFields: domain.AuditFields{CreatedBy: "operator"},
	}
	suite.mockBalanceService.On("SubmitBalance", mock.Anything, "$12,345.67", "operator").Return(rec, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/balance", `{"input":"$12,345.67"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.BalanceRecordResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("r1", resp.RecordID)
	suite.Equal("2024-03-09", resp.RecordDate)
	suite.Equal("$12,345.67", resp.Formatted)
}

func (suite *BalanceHandlerTestSuite) TestSubmitBalance_ErrorKinds() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   apperrors.ErrorKind
	}{
		{"invalid input", apperrors.NewAppError(http.StatusBadRequest, `invalid balance "abc": no digits`, apperrors.ErrInvalidInput), http.StatusBadRequest, apperrors.KindInvalidInput},
		{"duplicate day", fmt.Errorf("failed to record balance: %w", apperrors.ErrDuplicateEntryForDay), http.StatusConflict, apperrors.KindDuplicateEntryForDay},
		{"connection failure", fmt.Errorf("insert: %w", apperrors.ErrConnectionFailure), http.StatusServiceUnavailable, apperrors.KindConnectionFailure},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockBalanceService.On("SubmitBalance", mock.Anything, "abc", "operator").Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/balance", `{"input":"abc"}`)

			suite.Equal(tt.wantStatus, w.Code)
			var resp dto.ErrorResponse
			suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
			suite.Equal(string(tt.wantKind), resp.Kind)
			suite.NotEmpty(resp.Error)
		})
	}
}

func (suite *BalanceHandlerTestSuite) TestSubmitBalance_ErrorMessages() {
	storeErr := fmt.Errorf("failed to record balance: %w: dial tcp 127.0.0.1:5432: connect: connection refused", apperrors.ErrConnectionFailure)
	suite.mockBalanceService.On("SubmitBalance", mock.Anything, "100", "operator").Return(nil, storeErr).Once()
	suite.mockBalanceService.On("SubmitBalance", mock.Anything, "200", "operator").
		Return(nil, fmt.Errorf("failed to record balance: %w", apperrors.ErrDuplicateEntryForDay)).Once()

	var resp dto.ErrorResponse
	w := suite.do(http.MethodPost, "/api/v1/balance", `{"input":"100"}`)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(storeErr.Error(), resp.Error)

	w = suite.do(http.MethodPost, "/api/v1/balance", `{"input":"200"}`)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("a balance has already been recorded for today", resp.Error)
}

func (suite *BalanceHandlerTestSuite) TestSubmitBalance_BlankInputRejectedBeforeService() {
	w := suite.do(http.MethodPost, "/api/v1/balance", `{"input":""}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Please enter a balance.")
	suite.mockBalanceService.AssertNotCalled(suite.T(), "SubmitBalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *BalanceHandlerTestSuite) TestSubmitBalance_ControlCharactersRejected() {
	w := suite.do(http.MethodPost, "/api/v1/balance", `{"input":"12\u0000"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Invalid balance input")
}

func (suite *BalanceHandlerTestSuite) TestSubmitBalance_RequiresToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/balance", strings.NewReader(`{"input":"1"}`))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *BalanceHandlerTestSuite) TestListBalanceHistory() {
	next := "token"
	suite.mockBalanceService.On("ListBalanceHistory", mock.Anything, mock.MatchedBy(func(p dto.ListBalancesParams) bool {
		return p.Limit == 5 && p.NextToken == "abc"
	})).Return(&dto.ListBalancesResponse{Records: []dto.BalanceRecordResponse{{RecordID: "r1"}}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/balance/history?limit=5&nextToken=abc", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListBalancesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Records, 1)
	suite.Equal("token", *resp.NextToken)
}

func (suite *BalanceHandlerTestSuite) TestListBalanceHistory_LimitOutOfRange() {
	w := suite.do(http.MethodGet, "/api/v1/balance/history?limit=0", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

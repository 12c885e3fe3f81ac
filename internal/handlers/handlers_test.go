package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	"github.com/SscSPs/elra_wallet/internal/core/services"
	"github.com/SscSPs/elra_wallet/internal/dto"
	"github.com/SscSPs/elra_wallet/internal/handlers"
	"github.com/SscSPs/elra_wallet/internal/middleware"
	"github.com/SscSPs/elra_wallet/internal/platform/config"
	"github.com/SscSPs/elra_wallet/internal/platform/lock"
	"github.com/SscSPs/elra_wallet/internal/repositories/database/memory"
)

const (
	testTenant    = "tenant-1"
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testIssuer    = "elra-test"
	runnerKey     = "payroll-runner-key"
)

var (
	financeClaims = middleware.ActorClaims{TenantID: testTenant, RoleLevel: 3, Department: "Finance & Accounting"}
	hrClaims      = middleware.ActorClaims{TenantID: testTenant, RoleLevel: 3, Department: "Human Resources"}
	salesClaims   = middleware.ActorClaims{TenantID: testTenant, RoleLevel: 2, Department: "Sales & Marketing"}
)

type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	repos  portsrepo.RepositoryProvider
	redis  *miniredis.Miniredis
}

func (suite *HandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())
}

func (suite *HandlerTestSuite) SetupTest() {
	hash, err := bcrypt.GenerateFromPassword([]byte(runnerKey), bcrypt.MinCost)
	suite.Require().NoError(err)

	cfg := &config.Config{
		IsProduction:              true,
		JWTSecret:                 testJWTSecret,
		JWTIssuer:                 testIssuer,
		SystemAPIKeyHash:          string(hash),
		IdempotencyTTL:            time.Hour,
		FinanceDepartment:         "Finance & Accounting",
		HRDepartment:              "Human Resources",
		ApproverMinRoleLevel:      3,
		UtilizationAlertThreshold: decimal.NewFromInt(80),
		DefaultPageSize:           20,
	}

	suite.redis = miniredis.RunT(suite.T())
	client := redis.NewClient(&redis.Options{Addr: suite.redis.Addr()})
	suite.T().Cleanup(func() { _ = client.Close() })

	suite.repos = memory.NewRepositoryProvider(memory.NewStore())
	container := services.NewServiceContainer(cfg, suite.repos, lock.NewLocalLocker())

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(suite.router, cfg, container, handlers.RouterDeps{Redis: client})
}

func (suite *HandlerTestSuite) token(userID string, claims middleware.ActorClaims) string {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err)
	return signed
}

func (suite *HandlerTestSuite) do(method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decode(w *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func (suite *HandlerTestSuite) fund(total, payroll string) {
	fin := suite.token("fin-1", financeClaims)
	w := suite.do(http.MethodPost, "/api/v1/wallet/funds", fin, gin.H{"amount": total, "description": "initial funding"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	if payroll != "" {
		w = suite.do(http.MethodPost, "/api/v1/wallet/budget", fin, gin.H{"category": "payroll", "amount": payroll})
		suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}
}

func (suite *HandlerTestSuite) entryCount() int {
	entries, err := suite.repos.LedgerRepo.ListAllEntries(context.Background(), testTenant, 0)
	suite.Require().NoError(err)
	return len(entries)
}

func (suite *HandlerTestSuite) TestAuthRequired() {
	w := suite.do(http.MethodGet, "/api/v1/wallet", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/wallet", "not-a-jwt", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/wallet", "", nil, "x-api-key", "wrong", middleware.TenantHeader, testTenant)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestScenarioA_DepositAndAllocate() {
	fin := suite.token("fin-1", financeClaims)

	w := suite.do(http.MethodPost, "/api/v1/wallet/funds", fin, gin.H{"amount": "1000000", "description": "initial funding"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var deposit dto.MutationResponse
	suite.decode(w, &deposit)
	suite.Equal("deposit", deposit.Entry.Type)
	suite.Equal(int64(1), deposit.Entry.Sequence)
	suite.True(deposit.Wallet.FinancialSummary.TotalFunds.Equal(decimal.NewFromInt(1000000)))

	w = suite.do(http.MethodPost, "/api/v1/wallet/budget", fin, gin.H{"category": "payroll", "amount": "400000"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/wallet", fin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var wallet dto.WalletResponse
	suite.decode(w, &wallet)
	suite.True(wallet.FinancialSummary.AvailableFunds.Equal(decimal.NewFromInt(600000)))
	suite.True(wallet.FinancialSummary.BudgetCategories[domain.CategoryPayroll].Available.Equal(decimal.NewFromInt(400000)))

	w = suite.do(http.MethodGet, "/api/v1/wallet/transactions?limit=1", fin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListTransactionsResponse
	suite.decode(w, &page)
	suite.Require().Len(page.Transactions, 1)
	suite.Equal("allocation", page.Transactions[0].Type)
	suite.Equal(2, page.Pagination.TotalItems)

	w = suite.do(http.MethodGet, "/api/v1/wallet/reconcile", fin, nil)
	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *HandlerTestSuite) TestErrorMapping() {
	suite.fund("1000", "")
	fin := suite.token("fin-1", financeClaims)
	sales := suite.token("sales-1", salesClaims)

	w := suite.do(http.MethodPost, "/api/v1/wallet/budget", fin, gin.H{"category": "payroll", "amount": "1000.01"})
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)
	var funds handlers.ErrorResponse
	suite.decode(w, &funds)
	suite.Equal("pool.available", funds.Bucket)
	suite.Equal("1000", funds.Available)

	w = suite.do(http.MethodPost, "/api/v1/wallet/budget", fin, gin.H{"category": "marketing", "amount": "10"})
	suite.Equal(http.StatusBadRequest, w.Code, "unknown category is rejected at binding")

	w = suite.do(http.MethodPost, "/api/v1/wallet/funds", fin, gin.H{"amount": "-5", "description": "negative"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/wallet/funds", sales, gin.H{"amount": "5", "description": "not finance"})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/payroll/approvals/does-not-exist", fin, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/reports/alerts?threshold=abc", fin, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestPayrollLifecycle() {
	suite.fund("1000000", "400000")
	fin := suite.token("fin-1", financeClaims)
	hr := suite.token("hr-1", hrClaims)

	w := suite.do(http.MethodPost, "/api/v1/payroll/approvals", fin, gin.H{
		"month": 3, "year": 2025,
		"totalGrossPay": "400000", "totalDeductions": "50000", "totalNetPay": "350000",
		"totalEmployees": 40,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var req domain.PayrollApprovalRequest
	suite.decode(w, &req)
	suite.Equal(domain.PayrollPendingFinance, req.ApprovalStatus)

	base := fmt.Sprintf("/api/v1/payroll/approvals/%s", req.ID)

	w = suite.do(http.MethodPost, base+"/approve", hr, nil)
	suite.Equal(http.StatusConflict, w.Code, "request is not awaiting HR approval yet")

	w = suite.do(http.MethodPost, base+"/approve", fin, gin.H{"comments": "budget checked"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, base+"/approve", fin, nil)
	suite.Require().Equal(http.StatusConflict, w.Code, "a repeated Finance approval must not reach the HR stage")

	w = suite.do(http.MethodPost, base+"/approve", fin, gin.H{"expectedStatus": "approved_finance"})
	suite.Require().Equal(http.StatusForbidden, w.Code, "Finance cannot give the HR approval")

	w = suite.do(http.MethodPost, base+"/approve", hr, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, base+"/process", "", nil, "x-api-key", runnerKey, middleware.TenantHeader, testTenant)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &req)
	suite.Equal(domain.PayrollProcessed, req.ApprovalStatus)
	suite.Require().NotNil(req.ProcessedBy)
	suite.Equal(domain.SystemActorID, *req.ProcessedBy)

	w = suite.do(http.MethodPost, base+"/reject", fin, gin.H{"reason": "too late"})
	suite.Equal(http.StatusConflict, w.Code)
	var conflict handlers.ErrorResponse
	suite.decode(w, &conflict)
	suite.Equal(string(domain.PayrollProcessed), conflict.CurrentState)

	w = suite.do(http.MethodGet, "/api/v1/reports/utilization", fin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var utilization dto.UtilizationResponse
	suite.decode(w, &utilization)
	suite.Require().NotEmpty(utilization.Categories)
	suite.True(utilization.Categories[0].UtilizationPercentage.Equal(decimal.NewFromFloat(87.5)))
}

func (suite *HandlerTestSuite) TestRejectRequiresReason() {
	suite.fund("1000", "")
	fin := suite.token("fin-1", financeClaims)
	w := suite.do(http.MethodPost, "/api/v1/payroll/approvals", fin, gin.H{
		"month": 1, "year": 2025, "totalGrossPay": "100", "totalNetPay": "100", "totalEmployees": 1,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var req domain.PayrollApprovalRequest
	suite.decode(w, &req)

	w = suite.do(http.MethodPost, "/api/v1/payroll/approvals/"+req.ID+"/reject", fin, gin.H{})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSalesMarketingRevenue() {
	suite.fund("1000", "")
	fin := suite.token("fin-1", financeClaims)
	sales := suite.token("sales-1", salesClaims)

	w := suite.do(http.MethodPost, "/api/v1/sales-marketing/approvals", sales, gin.H{
		"reference": "INV-7", "type": "revenue", "amount": "250", "category": "campaigns",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var req domain.SalesMarketingApprovalRequest
	suite.decode(w, &req)

	w = suite.do(http.MethodPost, "/api/v1/sales-marketing/approvals/"+req.ID+"/approve", sales, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/sales-marketing/approvals/"+req.ID+"/approve", fin, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/reports/breakdown", fin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var breakdown map[domain.BudgetCategory]domain.CategoryBalance
	suite.decode(w, &breakdown)
	suite.True(breakdown[domain.CategoryOperational].Available.Equal(decimal.NewFromInt(250)))

	w = suite.do(http.MethodGet, "/api/v1/sales-marketing/approvals?status=approved", fin, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListSalesMarketingApprovalsResponse
	suite.decode(w, &list)
	suite.Len(list.Requests, 1)
}

func (suite *HandlerTestSuite) TestIdempotentDeposit() {
	fin := suite.token("fin-1", financeClaims)
	body := gin.H{"amount": "500", "description": "wire 42"}

	first := suite.do(http.MethodPost, "/api/v1/wallet/funds", fin, body, middleware.IdempotencyKeyHeader, "wire-42")
	suite.Require().Equal(http.StatusCreated, first.Code, first.Body.String())

	second := suite.do(http.MethodPost, "/api/v1/wallet/funds", fin, body, middleware.IdempotencyKeyHeader, "wire-42")
	suite.Require().Equal(http.StatusCreated, second.Code)
	suite.Equal("true", second.Header().Get("Idempotent-Replayed"))
	suite.JSONEq(first.Body.String(), second.Body.String())
	suite.Equal(1, suite.entryCount())

	// another caller using the same key is not deduplicated against the first
	other := suite.token("fin-2", financeClaims)
	third := suite.do(http.MethodPost, "/api/v1/wallet/funds", other, body, middleware.IdempotencyKeyHeader, "wire-42")
	suite.Require().Equal(http.StatusCreated, third.Code)
	suite.Equal(2, suite.entryCount())
}

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

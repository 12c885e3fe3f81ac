package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/dto"
)

type SalesMarketingApprovalServiceTestSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context
}

func (suite *SalesMarketingApprovalServiceTestSuite) SetupTest() {
	suite.f = newFixture()
	suite.ctx = context.Background()
	suite.f.fund(suite.T(), "100000", map[domain.BudgetCategory]string{domain.CategoryOperational: "50000"})
}

func (suite *SalesMarketingApprovalServiceTestSuite) submit(typ, reference, amount string) *domain.SalesMarketingApprovalRequest {
	req, err := suite.f.svc.SalesMarketing.SubmitSalesMarketing(suite.ctx, salesActor, dto.SubmitSalesMarketingRequest{
		Reference: reference,
		Type:      typ,
		Amount:    dec(amount),
		Category:  "campaigns",
	})
	suite.Require().NoError(err)
	return req
}

func (suite *SalesMarketingApprovalServiceTestSuite) operational() domain.CategoryBalance {
	return suite.f.snapshot(suite.T()).Category(domain.CategoryOperational)
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestSubmit() {
	req := suite.submit("expense", "SM-001", "1200")
	suite.Equal(domain.SalesMarketingPending, req.Status)
	suite.Equal(domain.CategoryOperational, req.BudgetCategory)
	suite.Equal(domain.SalesMarketingExpense, req.Type)
	suite.Equal(salesActor.UserID, req.RequestedBy)

	found, err := suite.f.svc.SalesMarketing.GetSalesMarketingRequest(suite.ctx, financeActor, req.ID)
	suite.Require().NoError(err)
	suite.Equal("SM-001", found.Reference)
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestSubmit_ReferenceIsUniquePerTenant() {
	suite.submit("expense", "SM-DUP", "100")

	_, err := suite.f.svc.SalesMarketing.SubmitSalesMarketing(suite.ctx, salesActor, dto.SubmitSalesMarketingRequest{
		Reference: " SM-DUP ", Type: "revenue", Amount: dec("50"),
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	otherTenant := salesActor
	otherTenant.TenantID = "tenant-2"
	_, err = suite.f.svc.SalesMarketing.SubmitSalesMarketing(suite.ctx, otherTenant, dto.SubmitSalesMarketingRequest{
		Reference: "SM-DUP", Type: "revenue", Amount: dec("50"),
	})
	suite.NoError(err)
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestSubmit_Validation() {
	projects := "projects"
	tests := []struct {
		name string
		in   dto.SubmitSalesMarketingRequest
	}{
		{"non operational budget", dto.SubmitSalesMarketingRequest{Reference: "SM-1", Type: "expense", Amount: dec("10"), BudgetCategory: &projects}},
		{"unknown type", dto.SubmitSalesMarketingRequest{Reference: "SM-1", Type: "refund", Amount: dec("10")}},
		{"zero amount", dto.SubmitSalesMarketingRequest{Reference: "SM-1", Type: "expense", Amount: dec("0")}},
		{"blank reference", dto.SubmitSalesMarketingRequest{Reference: "  ", Type: "revenue", Amount: dec("10")}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.f.svc.SalesMarketing.SubmitSalesMarketing(suite.ctx, salesActor, tt.in)
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestScenarioD_ConcurrentApprovals() {
	t := suite.T()
	req := suite.submit("expense", "SM-CAMPAIGN-7", "50000")

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []error
	)
	approvers := []domain.Actor{financeActor, adminActor}
	for _, actor := range approvers {
		wg.Add(1)
		go func(actor domain.Actor) {
			defer wg.Done()
			_, err := suite.f.svc.SalesMarketing.ApproveSalesMarketing(suite.ctx, actor, req.ID, nil)
			mu.Lock()
			results = append(results, err)
			mu.Unlock()
		}(actor)
	}
	wg.Wait()

	succeeded, refused := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, apperrors.ErrInvalidTransition):
			refused++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	suite.Equal(1, succeeded)
	suite.Equal(1, refused)

	operational := suite.operational()
	requireDecEqual(t, "50000", operational.Used)
	requireDecEqual(t, "0", operational.Available)

	found, err := suite.f.svc.SalesMarketing.GetSalesMarketingRequest(suite.ctx, financeActor, req.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.SalesMarketingApproved, found.Status)
	suite.Equal(int64(2), found.Version)
	suite.f.requireConsistent(t)
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestExpenseBeyondAvailableStaysPending() {
	req := suite.submit("expense", "SM-BIG", "50000.01")

	_, err := suite.f.svc.SalesMarketing.ApproveSalesMarketing(suite.ctx, financeActor, req.ID, nil)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	found, err := suite.f.svc.SalesMarketing.GetSalesMarketingRequest(suite.ctx, financeActor, req.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.SalesMarketingPending, found.Status)
	suite.Nil(found.ApprovedBy)
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestRevenueDepositsIntoOperational() {
	t := suite.T()
	req := suite.submit("revenue", "INV-2025-031", "8000")
	comments := "matches bank statement"

	approved, err := suite.f.svc.SalesMarketing.ApproveSalesMarketing(suite.ctx, financeActor, req.ID, &comments)
	suite.Require().NoError(err)
	suite.Equal(domain.SalesMarketingApproved, approved.Status)
	suite.Require().NotNil(approved.ApprovedBy)
	suite.Equal(financeActor.UserID, *approved.ApprovedBy)
	suite.Require().NotNil(approved.ApprovalComments)
	suite.Equal(comments, *approved.ApprovalComments)

	w := suite.f.snapshot(t)
	requireDecEqual(t, "108000", w.TotalFunds)
	requireDecEqual(t, "58000", w.Category(domain.CategoryOperational).Allocated)
	requireDecEqual(t, "58000", w.Category(domain.CategoryOperational).Available)

	entries, err := suite.f.repos.LedgerRepo.ListAllEntries(suite.ctx, testTenant, 0)
	suite.Require().NoError(err)
	last := entries[len(entries)-1]
	suite.Equal(domain.EntryDeposit, last.Type)
	suite.Equal("INV-2025-031", last.Reference)
	suite.Equal(domain.ReferenceTypeSalesMarketing, last.ReferenceType)
	suite.f.requireConsistent(t)
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestRejectIsBalanceNeutral() {
	t := suite.T()
	req := suite.submit("expense", "SM-REJ", "2000")
	before := suite.f.snapshot(t)

	rejected, err := suite.f.svc.SalesMarketing.RejectSalesMarketing(suite.ctx, financeActor, req.ID, nil)
	suite.Require().NoError(err)
	suite.Equal(domain.SalesMarketingRejected, rejected.Status)
	suite.Require().NotNil(rejected.ApprovedBy)

	after := suite.f.snapshot(t)
	requireDecEqual(t, before.TotalFunds.String(), after.TotalFunds)
	requireDecEqual(t, "50000", after.Category(domain.CategoryOperational).Available)
	requireDecEqual(t, "0", after.Category(domain.CategoryOperational).Used)
	suite.Equal(before.Version+1, after.Version)

	_, err = suite.f.svc.SalesMarketing.ApproveSalesMarketing(suite.ctx, financeActor, req.ID, nil)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.f.requireConsistent(t)
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestOnlyFinanceDecides() {
	req := suite.submit("expense", "SM-PERM", "100")

	for _, actor := range []domain.Actor{salesActor, hrActor, juniorActor, runnerActor} {
		_, err := suite.f.svc.SalesMarketing.ApproveSalesMarketing(suite.ctx, actor, req.ID, nil)
		suite.ErrorIs(err, apperrors.ErrPermission, actor.UserID)
		_, err = suite.f.svc.SalesMarketing.RejectSalesMarketing(suite.ctx, actor, req.ID, nil)
		suite.ErrorIs(err, apperrors.ErrPermission, actor.UserID)
	}

	unbound := financeActor
	unbound.TenantID = ""
	_, err := suite.f.svc.SalesMarketing.ApproveSalesMarketing(suite.ctx, unbound, req.ID, nil)
	suite.ErrorIs(err, apperrors.ErrPermission)
}

func (suite *SalesMarketingApprovalServiceTestSuite) TestListFilters() {
	expense := suite.submit("expense", "SM-A", "100")
	revenue := suite.submit("revenue", "SM-B", "200")
	suite.submit("expense", "SM-C", "300")

	_, err := suite.f.svc.SalesMarketing.ApproveSalesMarketing(suite.ctx, financeActor, expense.ID, nil)
	suite.Require().NoError(err)

	all, err := suite.f.svc.SalesMarketing.ListSalesMarketing(suite.ctx, financeActor, dto.ListApprovalsParams{})
	suite.Require().NoError(err)
	suite.Len(all.Requests, 3)

	pending, err := suite.f.svc.SalesMarketing.ListSalesMarketing(suite.ctx, financeActor, dto.ListApprovalsParams{Status: "pending"})
	suite.Require().NoError(err)
	suite.Len(pending.Requests, 2)

	revenues, err := suite.f.svc.SalesMarketing.ListSalesMarketing(suite.ctx, financeActor, dto.ListApprovalsParams{Type: "revenue"})
	suite.Require().NoError(err)
	suite.Require().Len(revenues.Requests, 1)
	suite.Equal(revenue.ID, revenues.Requests[0].ID)

	approvedExpenses, err := suite.f.svc.SalesMarketing.ListSalesMarketing(suite.ctx, financeActor, dto.ListApprovalsParams{Status: "approved", Type: "expense"})
	suite.Require().NoError(err)
	suite.Require().Len(approvedExpenses.Requests, 1)
	suite.Equal(expense.ID, approvedExpenses.Requests[0].ID)

	_, err = suite.f.svc.SalesMarketing.ListSalesMarketing(suite.ctx, financeActor, dto.ListApprovalsParams{Status: "archived"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestSalesMarketingApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SalesMarketingApprovalServiceTestSuite))
}

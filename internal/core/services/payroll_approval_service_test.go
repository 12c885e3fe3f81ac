package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/dto"
)

type PayrollApprovalServiceTestSuite struct {
	suite.Suite
	f   *fixture
	ctx context.Context
}

func (suite *PayrollApprovalServiceTestSuite) SetupTest() {
	suite.f = newFixture()
	suite.ctx = context.Background()
	suite.f.fund(suite.T(), "1000000", map[domain.BudgetCategory]string{domain.CategoryPayroll: "400000"})
}

func (suite *PayrollApprovalServiceTestSuite) submit(month int, net string) *domain.PayrollApprovalRequest {
	req, err := suite.f.svc.Payroll.SubmitPayroll(suite.ctx, salesActor, dto.SubmitPayrollRequest{
		Month:           month,
		Year:            2025,
		TotalGrossPay:   dec(net).Add(dec("1000")),
		TotalDeductions: dec("1000"),
		TotalNetPay:     dec(net),
		TotalEmployees:  12,
	})
	suite.Require().NoError(err)
	return req
}

func (suite *PayrollApprovalServiceTestSuite) payroll() domain.CategoryBalance {
	return suite.f.snapshot(suite.T()).Category(domain.CategoryPayroll)
}

func (suite *PayrollApprovalServiceTestSuite) TestSubmit() {
	req := suite.submit(3, "150000")
	suite.Equal(domain.PayrollPendingFinance, req.ApprovalStatus)
	suite.Equal(testTenant, req.TenantID)
	suite.Equal(salesActor.UserID, req.RequestedBy)
	suite.Equal(int64(1), req.Version)

	found, err := suite.f.svc.Payroll.GetPayrollRequest(suite.ctx, financeActor, req.ID)
	suite.Require().NoError(err)
	suite.Equal(req.ID, found.ID)

	_, err = suite.f.svc.Payroll.SubmitPayroll(suite.ctx, salesActor, dto.SubmitPayrollRequest{
		Month: 3, Year: 2025, TotalGrossPay: dec("10"), TotalNetPay: dec("10"), TotalEmployees: 1,
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *PayrollApprovalServiceTestSuite) TestSubmit_Validation() {
	_, err := suite.f.svc.Payroll.SubmitPayroll(suite.ctx, salesActor, dto.SubmitPayrollRequest{
		Month: 4, Year: 2025, TotalGrossPay: dec("100"), TotalDeductions: dec("10"), TotalNetPay: dec("95"), TotalEmployees: 2,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.svc.Payroll.SubmitPayroll(suite.ctx, salesActor, dto.SubmitPayrollRequest{
		Month: 13, Year: 2025, TotalGrossPay: dec("100"), TotalNetPay: dec("100"), TotalEmployees: 2,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PayrollApprovalServiceTestSuite) TestScenarioB_FinanceThenHRApproval() {
	t := suite.T()
	req := suite.submit(3, "150000")

	approved, err := suite.f.svc.Payroll.ApprovePayroll(suite.ctx, financeActor, req.ID, dto.ApprovePayrollRequest{})
	suite.Require().NoError(err)
	suite.Equal(domain.PayrollApprovedFinance, approved.ApprovalStatus)
	suite.Require().NotNil(approved.FinanceApproval)
	suite.Equal(financeActor.UserID, approved.FinanceApproval.ApprovedBy)

	payroll := suite.payroll()
	requireDecEqual(t, "150000", payroll.Reserved)
	requireDecEqual(t, "250000", payroll.Available)

	comments := "headcount verified"
	approved, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, hrActor, req.ID, dto.ApprovePayrollRequest{Comments: &comments})
	suite.Require().NoError(err)
	suite.Equal(domain.PayrollApprovedHR, approved.ApprovalStatus)
	suite.Require().NotNil(approved.HRApproval)
	suite.Equal(comments, approved.HRApproval.Comments)

	payroll = suite.payroll()
	requireDecEqual(t, "150000", payroll.Used)
	requireDecEqual(t, "0", payroll.Reserved)
	requireDecEqual(t, "250000", payroll.Available)

	processed, err := suite.f.svc.Payroll.ProcessPayroll(suite.ctx, runnerActor, req.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.PayrollProcessed, processed.ApprovalStatus)
	suite.Require().NotNil(processed.ProcessedBy)
	suite.Equal(domain.SystemActorID, *processed.ProcessedBy)
	suite.Equal(int64(4), processed.Version)

	// funding entries, reservation, use, approval record
	suite.Equal(5, suite.f.entryCount(t))
	suite.f.requireConsistent(t)
}

func (suite *PayrollApprovalServiceTestSuite) TestScenarioC_FinanceRejectsPending() {
	t := suite.T()
	req := suite.submit(3, "150000")
	before := suite.payroll()

	rejected, err := suite.f.svc.Payroll.RejectPayroll(suite.ctx, financeActor, req.ID, "totals do not match timesheets")
	suite.Require().NoError(err)
	suite.Equal(domain.PayrollRejected, rejected.ApprovalStatus)
	suite.Require().NotNil(rejected.RejectionReason)
	suite.Equal("totals do not match timesheets", *rejected.RejectionReason)

	after := suite.payroll()
	requireDecEqual(t, before.Allocated.String(), after.Allocated)
	requireDecEqual(t, before.Reserved.String(), after.Reserved)
	requireDecEqual(t, before.Used.String(), after.Used)
	requireDecEqual(t, before.Available.String(), after.Available)

	entries, err := suite.f.repos.LedgerRepo.ListAllEntries(suite.ctx, testTenant, 0)
	suite.Require().NoError(err)
	last := entries[len(entries)-1]
	suite.Equal(domain.EntryRejection, last.Type)
	suite.Equal(req.ID, last.Reference)
	suite.f.requireConsistent(t)
}

func (suite *PayrollApprovalServiceTestSuite) TestRejectAfterFinanceReleasesReservation() {
	t := suite.T()
	req := suite.submit(3, "150000")
	_, err := suite.f.svc.Payroll.ApprovePayroll(suite.ctx, financeActor, req.ID, dto.ApprovePayrollRequest{})
	suite.Require().NoError(err)

	rejected, err := suite.f.svc.Payroll.RejectPayroll(suite.ctx, hrActor, req.ID, "missing contracts")
	suite.Require().NoError(err)
	suite.Equal(domain.PayrollRejected, rejected.ApprovalStatus)

	payroll := suite.payroll()
	requireDecEqual(t, "0", payroll.Reserved)
	requireDecEqual(t, "400000", payroll.Available)
	requireDecEqual(t, "0", payroll.Used)
	suite.f.requireConsistent(t)
}

func (suite *PayrollApprovalServiceTestSuite) TestRejectionIsIdempotent() {
	req := suite.submit(3, "150000")
	_, err := suite.f.svc.Payroll.RejectPayroll(suite.ctx, financeActor, req.ID, "first")
	suite.Require().NoError(err)
	entries := suite.f.entryCount(suite.T())
	before := suite.f.snapshot(suite.T())

	_, err = suite.f.svc.Payroll.RejectPayroll(suite.ctx, financeActor, req.ID, "second")
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)

	suite.Equal(entries, suite.f.entryCount(suite.T()))
	suite.Equal(before.Version, suite.f.snapshot(suite.T()).Version)

	found, err := suite.f.svc.Payroll.GetPayrollRequest(suite.ctx, financeActor, req.ID)
	suite.Require().NoError(err)
	suite.Equal("first", *found.RejectionReason)
}

func (suite *PayrollApprovalServiceTestSuite) TestApprovalIsMonotonic() {
	req := suite.submit(3, "1000")
	_, err := suite.f.svc.Payroll.RejectPayroll(suite.ctx, financeActor, req.ID, "no")
	suite.Require().NoError(err)

	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, financeActor, req.ID, dto.ApprovePayrollRequest{})
	suite.Require().ErrorIs(err, apperrors.ErrInvalidTransition)

	var detail *apperrors.InvalidTransitionError
	suite.Require().ErrorAs(err, &detail)
	suite.Equal(string(domain.PayrollRejected), detail.CurrentState)

	_, err = suite.f.svc.Payroll.ProcessPayroll(suite.ctx, runnerActor, req.ID)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *PayrollApprovalServiceTestSuite) TestRoleGates() {
	t := suite.T()
	req := suite.submit(3, "1000")

	_, err := suite.f.svc.Payroll.ApprovePayroll(suite.ctx, hrActor, req.ID, dto.ApprovePayrollRequest{})
	suite.ErrorIs(err, apperrors.ErrInvalidTransition, "hr stage is not reached yet")
	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, hrActor, req.ID, dto.ApprovePayrollRequest{ExpectedStatus: "pending_finance"})
	suite.ErrorIs(err, apperrors.ErrPermission)
	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, juniorActor, req.ID, dto.ApprovePayrollRequest{})
	suite.ErrorIs(err, apperrors.ErrPermission)
	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, runnerActor, req.ID, dto.ApprovePayrollRequest{})
	suite.ErrorIs(err, apperrors.ErrPermission)

	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, financeActor, req.ID, dto.ApprovePayrollRequest{})
	suite.Require().NoError(err)
	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, financeActor, req.ID, dto.ApprovePayrollRequest{})
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, financeActor, req.ID, dto.ApprovePayrollRequest{ExpectedStatus: "approved_finance"})
	suite.ErrorIs(err, apperrors.ErrPermission)

	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, adminActor, req.ID, dto.ApprovePayrollRequest{})
	suite.ErrorIs(err, apperrors.ErrValidation, "super admins must name the stage")
	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, adminActor, req.ID, dto.ApprovePayrollRequest{ExpectedStatus: "approved_hr"})
	suite.ErrorIs(err, apperrors.ErrValidation)
	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, adminActor, req.ID, dto.ApprovePayrollRequest{ExpectedStatus: "approved_finance"})
	suite.Require().NoError(err)

	_, err = suite.f.svc.Payroll.ProcessPayroll(suite.ctx, financeActor, req.ID)
	suite.ErrorIs(err, apperrors.ErrPermission)
	_, err = suite.f.svc.Payroll.ProcessPayroll(suite.ctx, runnerActor, req.ID)
	suite.NoError(err)

	suite.f.requireConsistent(t)
}

func (suite *PayrollApprovalServiceTestSuite) TestConcurrentApprovalsMoveOneStage() {
	t := suite.T()

	cases := []struct {
		name  string
		month int
		actor domain.Actor
		in    dto.ApprovePayrollRequest
	}{
		{"super admin double submit", 5, adminActor, dto.ApprovePayrollRequest{ExpectedStatus: "pending_finance"}},
		{"finance approvers race", 6, financeActor, dto.ApprovePayrollRequest{}},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			req := suite.submit(tc.month, "150000")

			const workers = 8
			var wg sync.WaitGroup
			var ok, invalid atomic.Int32
			wg.Add(workers)
			for i := 0; i < workers; i++ {
				go func() {
					defer wg.Done()
					_, err := suite.f.svc.Payroll.ApprovePayroll(suite.ctx, tc.actor, req.ID, tc.in)
					switch {
					case err == nil:
						ok.Add(1)
					case errors.Is(err, apperrors.ErrInvalidTransition):
						invalid.Add(1)
					}
				}()
			}
			wg.Wait()

			suite.Equal(int32(1), ok.Load())
			suite.Equal(int32(workers-1), invalid.Load())

			found, err := suite.f.svc.Payroll.GetPayrollRequest(suite.ctx, financeActor, req.ID)
			suite.Require().NoError(err)
			suite.Equal(domain.PayrollApprovedFinance, found.ApprovalStatus)
			suite.Nil(found.HRApproval)
		})
	}

	payroll := suite.payroll()
	requireDecEqual(t, "300000", payroll.Reserved)
	requireDecEqual(t, "0", payroll.Used)
	suite.f.requireConsistent(t)
}

func (suite *PayrollApprovalServiceTestSuite) TestFinanceApprovalFailsWithoutFunds() {
	req := suite.submit(3, "400000.01")
	versionBefore := suite.f.snapshot(suite.T()).Version

	_, err := suite.f.svc.Payroll.ApprovePayroll(suite.ctx, financeActor, req.ID, dto.ApprovePayrollRequest{})
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	found, err := suite.f.svc.Payroll.GetPayrollRequest(suite.ctx, financeActor, req.ID)
	suite.Require().NoError(err)
	suite.Equal(domain.PayrollPendingFinance, found.ApprovalStatus)
	suite.Equal(int64(1), found.Version)
	suite.Equal(versionBefore, suite.f.snapshot(suite.T()).Version)
}

func (suite *PayrollApprovalServiceTestSuite) TestOtherTenantCannotSeeRequest() {
	req := suite.submit(3, "1000")
	outsider := financeActor
	outsider.TenantID = "tenant-2"

	_, err := suite.f.svc.Payroll.GetPayrollRequest(suite.ctx, outsider, req.ID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	_, err = suite.f.svc.Payroll.ApprovePayroll(suite.ctx, outsider, req.ID, dto.ApprovePayrollRequest{})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PayrollApprovalServiceTestSuite) TestPendingAndHistoryListings() {
	a := suite.submit(1, "1000")
	b := suite.submit(2, "1000")
	c := suite.submit(3, "1000")

	_, err := suite.f.svc.Payroll.ApprovePayroll(suite.ctx, financeActor, b.ID, dto.ApprovePayrollRequest{})
	suite.Require().NoError(err)
	_, err = suite.f.svc.Payroll.RejectPayroll(suite.ctx, financeActor, a.ID, "duplicate run")
	suite.Require().NoError(err)

	pending, err := suite.f.svc.Payroll.ListPendingPayroll(suite.ctx, financeActor, dto.ListApprovalsParams{})
	suite.Require().NoError(err)
	suite.Len(pending.Requests, 2)

	onlyFinanceApproved, err := suite.f.svc.Payroll.ListPendingPayroll(suite.ctx, financeActor, dto.ListApprovalsParams{Status: "approved_finance"})
	suite.Require().NoError(err)
	suite.Require().Len(onlyFinanceApproved.Requests, 1)
	suite.Equal(b.ID, onlyFinanceApproved.Requests[0].ID)

	history, err := suite.f.svc.Payroll.ListPayrollHistory(suite.ctx, financeActor, dto.ListApprovalsParams{})
	suite.Require().NoError(err)
	suite.Require().Len(history.Requests, 1)
	suite.Equal(a.ID, history.Requests[0].ID)

	_, err = suite.f.svc.Payroll.ListPayrollHistory(suite.ctx, financeActor, dto.ListApprovalsParams{Status: "pending_finance"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	firstPage, err := suite.f.svc.Payroll.ListPendingPayroll(suite.ctx, financeActor, dto.ListApprovalsParams{Limit: 1})
	suite.Require().NoError(err)
	suite.Require().Len(firstPage.Requests, 1)
	suite.Require().NotNil(firstPage.NextToken)
	secondPage, err := suite.f.svc.Payroll.ListPendingPayroll(suite.ctx, financeActor, dto.ListApprovalsParams{Limit: 1, NextToken: firstPage.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(secondPage.Requests, 1)
	suite.NotEqual(firstPage.Requests[0].ID, secondPage.Requests[0].ID)
	suite.ElementsMatch([]string{b.ID, c.ID}, []string{firstPage.Requests[0].ID, secondPage.Requests[0].ID})
}

func TestPayrollApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollApprovalServiceTestSuite))
}

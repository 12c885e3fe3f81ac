package dto

import (
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitPayrollRequest creates a payroll approval request for a period.
type SubmitPayrollRequest struct {
	Month           int             `json:"month" binding:"required,min=1,max=12"`
	Year            int             `json:"year" binding:"required,min=2000"`
	TotalGrossPay   decimal.Decimal `json:"totalGrossPay" binding:"required"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNetPay     decimal.Decimal `json:"totalNetPay" binding:"required"`
	TotalEmployees  int             `json:"totalEmployees" binding:"required,min=1"`
}

// ApproveRequest carries optional sign-off comments.
type ApproveRequest struct {
	Comments *string `json:"comments" binding:"omitempty,max=1000"`
}

// ApprovePayrollRequest signs off one payroll stage. ExpectedStatus is the state the approver
// saw; it is required when the approver may sign both stages.
type ApprovePayrollRequest struct {
	ExpectedStatus string  `json:"expectedStatus" binding:"omitempty,oneof=pending_finance approved_finance"`
	Comments       *string `json:"comments" binding:"omitempty,max=1000"`
}

// RejectPayrollRequest carries the mandatory rejection reason.
type RejectPayrollRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// SubmitSalesMarketingRequest creates a sales & marketing approval request.
type SubmitSalesMarketingRequest struct {
	Reference      string          `json:"reference" binding:"required,max=100"`
	Type           string          `json:"type" binding:"required,oneof=revenue expense"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Category       string          `json:"category" binding:"required,max=100"`
	BudgetCategory *string         `json:"budgetCategory" binding:"omitempty,budget_category"`
	Description    string          `json:"description" binding:"max=500"`
}

// ListApprovalsParams are the query parameters of approval listings.
type ListApprovalsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
	Status    string  `form:"status"`
	Type      string  `form:"type"`
}

// ListPayrollApprovalsResponse is one page of payroll requests.
type ListPayrollApprovalsResponse struct {
	Requests  []domain.PayrollApprovalRequest `json:"requests"`
	NextToken *string                         `json:"nextToken,omitempty"`
}

// ListSalesMarketingApprovalsResponse is one page of sales & marketing requests.
type ListSalesMarketingApprovalsResponse struct {
	Requests  []domain.SalesMarketingApprovalRequest `json:"requests"`
	NextToken *string                                `json:"nextToken,omitempty"`
}

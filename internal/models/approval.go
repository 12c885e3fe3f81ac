package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollApprovalRequest is a row of payroll_approval_requests. The Finance and HR stamps
// are nullable JSONB columns.
type PayrollApprovalRequest struct {
	RequestID       string          `db:"request_id"`
	TenantID        string          `db:"tenant_id"`
	PeriodMonth     int             `db:"period_month"`
	PeriodYear      int             `db:"period_year"`
	TotalGrossPay   decimal.Decimal `db:"total_gross_pay"`
	TotalDeductions decimal.Decimal `db:"total_deductions"`
	TotalNetPay     decimal.Decimal `db:"total_net_pay"`
	TotalEmployees  int             `db:"total_employees"`
	ApprovalStatus  string          `db:"approval_status"`
	RequestedBy     string          `db:"requested_by"`
	FinanceApproval []byte          `db:"finance_approval"`
	HRApproval      []byte          `db:"hr_approval"`
	RejectionReason *string         `db:"rejection_reason"`
	RejectedBy      *string         `db:"rejected_by"`
	RejectedAt      *time.Time      `db:"rejected_at"`
	ProcessedBy     *string         `db:"processed_by"`
	ProcessedAt     *time.Time      `db:"processed_at"`
	Version         int64           `db:"version"`
	AuditFields
}

// SalesMarketingApprovalRequest is a row of sales_marketing_approval_requests.
type SalesMarketingApprovalRequest struct {
	RequestID        string          `db:"request_id"`
	TenantID         string          `db:"tenant_id"`
	Reference        string          `db:"reference"`
	RequestType      string          `db:"request_type"`
	Amount           decimal.Decimal `db:"amount"`
	Category         string          `db:"category"`
	BudgetCategory   string          `db:"budget_category"`
	Description      string          `db:"description"`
	Status           string          `db:"status"`
	RequestedBy      string          `db:"requested_by"`
	RequestedAt      time.Time       `db:"requested_at"`
	ApprovedBy       *string         `db:"approved_by"`
	ApprovedAt       *time.Time      `db:"approved_at"`
	ApprovalComments *string         `db:"approval_comments"`
	Version          int64           `db:"version"`
	AuditFields
}

package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PayrollStatus is the approval state of a payroll run.
type PayrollStatus string

const (
	PayrollPendingFinance  PayrollStatus = "pending_finance"
	PayrollApprovedFinance PayrollStatus = "approved_finance"
	PayrollApprovedHR      PayrollStatus = "approved_hr"
	PayrollRejected        PayrollStatus = "rejected"
	PayrollProcessed       PayrollStatus = "processed"
)

// IsTerminal reports whether no further transition can leave the state.
func (s PayrollStatus) IsTerminal() bool {
	return s == PayrollRejected || s == PayrollProcessed
}

// IsPending reports whether the request still awaits a decision.
func (s PayrollStatus) IsPending() bool {
	return s == PayrollPendingFinance || s == PayrollApprovedFinance || s == PayrollApprovedHR
}

// PayrollTransitions is the payroll workflow. Anything not listed is refused.
var PayrollTransitions = TransitionTable[PayrollStatus]{
	{From: PayrollPendingFinance, Action: ActionApproveFinance, Role: RoleFinance, To: PayrollApprovedFinance, Effect: EffectReserve},
	{From: PayrollPendingFinance, Action: ActionReject, Role: RoleFinance, To: PayrollRejected, Effect: EffectRecordRejection},
	{From: PayrollApprovedFinance, Action: ActionApproveHR, Role: RoleHR, To: PayrollApprovedHR, Effect: EffectCommitUse},
	{From: PayrollApprovedFinance, Action: ActionReject, Role: RoleFinanceOrHR, To: PayrollRejected, Effect: EffectReleaseAndReject},
	{From: PayrollApprovedHR, Action: ActionProcess, Role: RolePayrollRunner, To: PayrollProcessed, Effect: EffectRecordApproval},
}

// PayrollApproveAction returns the approve action that signs off a request in state from.
func PayrollApproveAction(from PayrollStatus) (ApprovalAction, bool) {
	switch from {
	case PayrollPendingFinance:
		return ActionApproveFinance, true
	case PayrollApprovedFinance:
		return ActionApproveHR, true
	}
	return "", false
}

// PayrollPeriod is the calendar month a payroll run covers.
type PayrollPeriod struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p PayrollPeriod) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: payroll month must be between 1 and 12", apperrors.ErrValidation)
	}
	if p.Year < 2000 || p.Year > 9999 {
		return fmt.Errorf("%w: payroll year %d out of range", apperrors.ErrValidation, p.Year)
	}
	return nil
}

func (p PayrollPeriod) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// PayrollFinancialSummary holds the totals of a payroll run.
type PayrollFinancialSummary struct {
	TotalGrossPay   decimal.Decimal `json:"totalGrossPay"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNetPay     decimal.Decimal `json:"totalNetPay"`
	TotalEmployees  int             `json:"totalEmployees"`
}

// Validate checks net pay is positive and equals gross pay minus deductions.
func (s PayrollFinancialSummary) Validate() error {
	if err := ValidatePositiveAmount(s.TotalNetPay); err != nil {
		return fmt.Errorf("total net pay: %w", err)
	}
	if s.TotalGrossPay.IsNegative() || s.TotalDeductions.IsNegative() {
		return fmt.Errorf("%w: gross pay and deductions cannot be negative", apperrors.ErrValidation)
	}
	if err := ValidateScale(s.TotalGrossPay); err != nil {
		return err
	}
	if err := ValidateScale(s.TotalDeductions); err != nil {
		return err
	}
	if !s.TotalGrossPay.Sub(s.TotalDeductions).Equal(s.TotalNetPay) {
		return fmt.Errorf("%w: net pay %s must equal gross pay %s minus deductions %s", apperrors.ErrValidation,
			s.TotalNetPay.StringFixed(MoneyScale), s.TotalGrossPay.StringFixed(MoneyScale), s.TotalDeductions.StringFixed(MoneyScale))
	}
	if s.TotalEmployees <= 0 {
		return fmt.Errorf("%w: total employees must be positive", apperrors.ErrValidation)
	}
	return nil
}

// PayrollApprovalRequest is a payroll run moving through Finance and HR sign-off.
type PayrollApprovalRequest struct {
	ID               string                  `json:"id"`
	TenantID         string                  `json:"tenantID"`
	Period           PayrollPeriod           `json:"period"`
	FinancialSummary PayrollFinancialSummary `json:"financialSummary"`
	ApprovalStatus   PayrollStatus           `json:"approvalStatus"`
	RequestedBy      string                  `json:"requestedBy"`
	FinanceApproval  *ApprovalStamp          `json:"financeApproval,omitempty"`
	HRApproval       *ApprovalStamp          `json:"hrApproval,omitempty"`
	RejectionReason  *string                 `json:"rejectionReason,omitempty"`
	RejectedBy       *string                 `json:"rejectedBy,omitempty"`
	RejectedAt       *time.Time              `json:"rejectedAt,omitempty"`
	ProcessedBy      *string                 `json:"processedBy,omitempty"`
	ProcessedAt      *time.Time              `json:"processedAt,omitempty"`
	Version          int64                   `json:"version"`
	AuditFields
}

// PayrollFilter narrows payroll request listings.
type PayrollFilter struct {
	Statuses []PayrollStatus
	Year     *int
	Month    *int
}

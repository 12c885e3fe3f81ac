package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SalesMarketingType says whether a request brings money in or spends it.
type SalesMarketingType string

const (
	SalesMarketingRevenue SalesMarketingType = "revenue"
	SalesMarketingExpense SalesMarketingType = "expense"
)

func ParseSalesMarketingType(s string) (SalesMarketingType, error) {
	t := SalesMarketingType(strings.ToLower(strings.TrimSpace(s)))
	if t != SalesMarketingRevenue && t != SalesMarketingExpense {
		return "", fmt.Errorf("%w: unknown sales & marketing type %q", apperrors.ErrValidation, s)
	}
	return t, nil
}

// SalesMarketingStatus is the approval state of a sales & marketing request.
type SalesMarketingStatus string

const (
	SalesMarketingPending  SalesMarketingStatus = "pending"
	SalesMarketingApproved SalesMarketingStatus = "approved"
	SalesMarketingRejected SalesMarketingStatus = "rejected"
)

func (s SalesMarketingStatus) IsTerminal() bool {
	return s == SalesMarketingApproved || s == SalesMarketingRejected
}

// SalesMarketingTransitions is the sales & marketing workflow.
var SalesMarketingTransitions = TransitionTable[SalesMarketingStatus]{
	{From: SalesMarketingPending, Action: ActionApprove, Role: RoleFinance, To: SalesMarketingApproved, Effect: EffectApplySalesEntry},
	{From: SalesMarketingPending, Action: ActionReject, Role: RoleFinance, To: SalesMarketingRejected, Effect: EffectRecordRejection},
}

// SalesMarketingApprovalRequest is a revenue or expense item awaiting Finance sign-off.
// ApprovedBy, ApprovedAt and ApprovalComments record the deciding actor for either outcome.
type SalesMarketingApprovalRequest struct {
	ID               string               `json:"id"`
	TenantID         string               `json:"tenantID"`
	Reference        string               `json:"reference"`
	Type             SalesMarketingType   `json:"type"`
	Amount           decimal.Decimal      `json:"amount"`
	Category         string               `json:"category"`
	BudgetCategory   BudgetCategory       `json:"budgetCategory"`
	Description      string               `json:"description"`
	Status           SalesMarketingStatus `json:"status"`
	RequestedBy      string               `json:"requestedBy"`
	RequestedAt      time.Time            `json:"requestedAt"`
	ApprovedBy       *string              `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time           `json:"approvedAt,omitempty"`
	ApprovalComments *string              `json:"approvalComments,omitempty"`
	Version          int64                `json:"version"`
	AuditFields
}

// SalesMarketingFilter narrows sales & marketing listings.
type SalesMarketingFilter struct {
	Statuses []SalesMarketingStatus
	Type     *SalesMarketingType
}

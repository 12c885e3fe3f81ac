package dto

import (
	"time"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest adds funds to the wallet, optionally straight into a budget category.
type DepositRequest struct {
	Amount           decimal.Decimal `json:"amount" binding:"required"`
	Description      string          `json:"description" binding:"required,max=500"`
	AllocateToBudget bool            `json:"allocateToBudget"`
	BudgetCategory   *string         `json:"budgetCategory" binding:"omitempty,budget_category"`
}

// WithdrawRequest takes funds out of the pool or out of a category's available balance.
type WithdrawRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Description    string          `json:"description" binding:"required,max=500"`
	BudgetCategory *string         `json:"budgetCategory" binding:"omitempty,budget_category"`
}

// AllocateBudgetRequest moves pool funds into (or, for releases, out of) a category.
type AllocateBudgetRequest struct {
	Category string          `json:"category" binding:"required,budget_category"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// LedgerEntryResponse is the wire form of a ledger entry.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	Sequence      int64           `json:"sequence"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Reference     string          `json:"reference,omitempty"`
	ReferenceType string          `json:"referenceType,omitempty"`
	Category      *string         `json:"category,omitempty"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Timestamp     time.Time       `json:"timestamp"`
	ActorID       string          `json:"actorId"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:            e.ID,
		Sequence:      e.Sequence,
		Type:          string(e.Type),
		Amount:        e.Amount,
		Description:   e.Description,
		Reference:     e.Reference,
		ReferenceType: e.ReferenceType,
		BalanceAfter:  e.BalanceAfter,
		Timestamp:     e.Timestamp,
		ActorID:       e.ActorID,
	}
	if e.Category != nil {
		c := string(*e.Category)
		resp.Category = &c
	}
	return resp
}

// ToLedgerEntryResponses converts a slice of entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToLedgerEntryResponse(e)
	}
	return responses
}

// MutationResponse carries the appended ledger entry and the wallet after it.
type MutationResponse struct {
	Entry  LedgerEntryResponse `json:"entry"`
	Wallet WalletResponse      `json:"wallet"`
}

// WalletResponse mirrors the dashboard contract.
type WalletResponse struct {
	FinancialSummary domain.FinancialSummary `json:"financialSummary"`
}

// ListTransactionsParams are the query parameters of the transaction listing.
type ListTransactionsParams struct {
	Limit     int        `form:"limit,default=20"`
	Page      int        `form:"page,default=1"`
	Type      string     `form:"type"`
	Category  string     `form:"category"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	NextToken *string    `form:"nextToken"`
	AsOf      int64      `form:"asOf"`
}

// PaginationMeta describes an offset-paginated result.
type PaginationMeta struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// ListTransactionsResponse is one page of ledger entries. AsOf is the ledger sequence the
// listing is pinned to; pass it back to get stable pages while new entries arrive.
type ListTransactionsResponse struct {
	Transactions []LedgerEntryResponse `json:"transactions"`
	Pagination   PaginationMeta        `json:"pagination"`
	NextToken    *string               `json:"nextToken,omitempty"`
	AsOf         int64                 `json:"asOf"`
}

// AllocationPreviewParams are the query parameters of the allocation preview.
type AllocationPreviewParams struct {
	Category string `form:"category" binding:"required,budget_category"`
	Amount   string `form:"amount" binding:"required,numeric"`
}

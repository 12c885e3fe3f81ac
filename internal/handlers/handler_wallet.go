package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/dto"
	"github.com/SscSPs/elra_wallet/internal/middleware"
)

// walletHandler handles HTTP requests related to the tenant wallet.
type walletHandler struct {
	wallets   portssvc.WalletRegistrySvc
	reporting portssvc.ReportingSvc
}

func newWalletHandler(wallets portssvc.WalletRegistrySvc, reporting portssvc.ReportingSvc) *walletHandler {
	return &walletHandler{wallets: wallets, reporting: reporting}
}

// registerWalletRoutes registers routes related to the wallet. Mutations go through
// the extra middleware (rate limit, idempotency).
func registerWalletRoutes(rg *gin.RouterGroup, wallets portssvc.WalletRegistrySvc, reporting portssvc.ReportingSvc, mutation ...gin.HandlerFunc) {
	h := newWalletHandler(wallets, reporting)

	wallet := rg.Group("/wallet")
	{
		wallet.GET("", h.getWallet)
		wallet.GET("/transactions", h.listTransactions)
		wallet.GET("/budget/preview", h.previewAllocation)
		wallet.GET("/reconcile", h.reconcile)

		mutations := wallet.Group("", mutation...)
		mutations.POST("/funds", h.deposit)
		mutations.POST("/withdrawals", h.withdraw)
		mutations.POST("/budget", h.allocate)
		mutations.POST("/budget/release", h.deallocate)
	}
}

func (h *walletHandler) respondWithEntry(c *gin.Context, actor domain.Actor, status int, entry *domain.LedgerEntry, operation string) {
	summary, err := h.reporting.FinancialSummary(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err, operation)
		return
	}
	c.JSON(status, dto.MutationResponse{
		Entry:  dto.ToLedgerEntryResponse(*entry),
		Wallet: dto.WalletResponse{FinancialSummary: *summary},
	})
}

// getWallet godoc
// @Summary Get the wallet overview
// @Description Returns totals and per-category balances of the caller's tenant wallet
// @Tags wallet
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /wallet [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	summary, err := h.reporting.FinancialSummary(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err, "get_wallet")
		return
	}
	c.JSON(http.StatusOK, dto.WalletResponse{FinancialSummary: *summary})
}

// deposit godoc
// @Summary Add funds to the wallet
// @Description Deposits into the unallocated pool, or straight into a budget category when allocateToBudget is set
// @Tags wallet
// @Accept json
// @Produce json
// @Param deposit body dto.DepositRequest true "Deposit details"
// @Param Idempotency-Key header string false "Replays the first response for repeated keys"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /wallet/funds [post]
func (h *walletHandler) deposit(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "deposit")
		return
	}

	var category *domain.BudgetCategory
	if req.AllocateToBudget {
		if req.BudgetCategory == nil {
			handleServiceError(c, fmt.Errorf("%w: budgetCategory is required when allocateToBudget is set", apperrors.ErrValidation), "deposit")
			return
		}
		parsed, err := domain.ParseBudgetCategory(*req.BudgetCategory)
		if err != nil {
			handleServiceError(c, err, "deposit")
			return
		}
		category = &parsed
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Received deposit", slog.String("amount", req.Amount.String()))
	entry, err := h.wallets.ForTenant(actor.TenantID).Deposit(c.Request.Context(), actor, req.Amount, req.Description, category, nil)
	if err != nil {
		handleServiceError(c, err, "deposit")
		return
	}
	h.respondWithEntry(c, actor, http.StatusCreated, entry, "deposit")
}

// withdraw godoc
// @Summary Withdraw funds
// @Description Takes funds out of the unallocated pool, or out of a category's available balance
// @Tags wallet
// @Accept json
// @Produce json
// @Param withdrawal body dto.WithdrawRequest true "Withdrawal details"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /wallet/withdrawals [post]
func (h *walletHandler) withdraw(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, "withdraw")
		return
	}

	var category *domain.BudgetCategory
	if req.BudgetCategory != nil {
		parsed, err := domain.ParseBudgetCategory(*req.BudgetCategory)
		if err != nil {
			handleServiceError(c, err, "withdraw")
			return
		}
		category = &parsed
	}

	entry, err := h.wallets.ForTenant(actor.TenantID).Withdraw(c.Request.Context(), actor, req.Amount, req.Description, category, nil)
	if err != nil {
		handleServiceError(c, err, "withdraw")
		return
	}
	h.respondWithEntry(c, actor, http.StatusCreated, entry, "withdraw")
}

// allocate godoc
// @Summary Allocate pool funds to a budget category
// @Tags wallet
// @Accept json
// @Produce json
// @Param allocation body dto.AllocateBudgetRequest true "Category and amount"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 422 {object} ErrorResponse "Insufficient pool funds"
// @Security BearerAuth
// @Router /wallet/budget [post]
func (h *walletHandler) allocate(c *gin.Context) {
	h.moveBudget(c, "allocate", portssvc.WalletMutatorSvc.AllocateToCategory)
}

// deallocate godoc
// @Summary Return unused category funds to the pool
// @Tags wallet
// @Accept json
// @Produce json
// @Param allocation body dto.AllocateBudgetRequest true "Category and amount"
// @Success 201 {object} dto.MutationResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 422 {object} ErrorResponse "Insufficient category funds"
// @Security BearerAuth
// @Router /wallet/budget/release [post]
func (h *walletHandler) deallocate(c *gin.Context) {
	h.moveBudget(c, "deallocate", portssvc.WalletMutatorSvc.DeallocateFromCategory)
}

type budgetMove func(w portssvc.WalletMutatorSvc, ctx context.Context, actor domain.Actor, category domain.BudgetCategory, amount decimal.Decimal) (*domain.LedgerEntry, error)

func (h *walletHandler) moveBudget(c *gin.Context, operation string, move budgetMove) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req dto.AllocateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err, operation)
		return
	}
	category, err := domain.ParseBudgetCategory(req.Category)
	if err != nil {
		handleServiceError(c, err, operation)
		return
	}

	entry, err := move(h.wallets.ForTenant(actor.TenantID), c.Request.Context(), actor, category, req.Amount)
	if err != nil {
		handleServiceError(c, err, operation)
		return
	}
	h.respondWithEntry(c, actor, http.StatusCreated, entry, operation)
}

// listTransactions godoc
// @Summary List ledger entries
// @Description Lists the tenant ledger newest first. Use page for offset paging or nextToken for cursor paging; pass asOf back to keep pages stable.
// @Tags wallet
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param page query int false "Page number" default(1)
// @Param type query string false "Entry type"
// @Param category query string false "Budget category"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD, inclusive)"
// @Param nextToken query string false "Cursor from a previous page"
// @Param asOf query int false "Ledger sequence to pin the listing to"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /wallet/transactions [get]
func (h *walletHandler) listTransactions(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "list_transactions")
		return
	}

	resp, err := h.wallets.ForTenant(actor.TenantID).ListTransactions(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err, "list_transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// previewAllocation godoc
// @Summary Preview an allocation
// @Description Shows the category and pool balances an allocation would produce without applying it
// @Tags wallet
// @Produce json
// @Param category query string true "Budget category"
// @Param amount query string true "Amount"
// @Success 200 {object} domain.AllocationPreview
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /wallet/budget/preview [get]
func (h *walletHandler) previewAllocation(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var params dto.AllocationPreviewParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err, "preview_allocation")
		return
	}
	category, err := domain.ParseBudgetCategory(params.Category)
	if err != nil {
		handleServiceError(c, err, "preview_allocation")
		return
	}
	amount, err := decimal.NewFromString(params.Amount)
	if err != nil {
		handleServiceError(c, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, params.Amount), "preview_allocation")
		return
	}

	preview, err := h.reporting.PreviewAllocation(c.Request.Context(), actor, category, amount)
	if err != nil {
		handleServiceError(c, err, "preview_allocation")
		return
	}
	c.JSON(http.StatusOK, preview)
}

// reconcile godoc
// @Summary Reconcile the wallet with its ledger
// @Description Replays the ledger and compares the result with the stored wallet
// @Tags wallet
// @Produce json
// @Success 200 {object} domain.ReconciliationReport
// @Failure 409 {object} domain.ReconciliationReport "Stored wallet drifted from the ledger"
// @Security BearerAuth
// @Router /wallet/reconcile [get]
func (h *walletHandler) reconcile(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	report, err := h.wallets.ForTenant(actor.TenantID).Reconcile(c.Request.Context(), actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvariantViolation) && report != nil {
			c.JSON(http.StatusConflict, report)
			return
		}
		handleServiceError(c, err, "reconcile")
		return
	}
	c.JSON(http.StatusOK, report)
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	"github.com/SscSPs/elra_wallet/internal/models"
	"github.com/SscSPs/elra_wallet/internal/utils/mapping"
	"github.com/SscSPs/elra_wallet/internal/utils/pagination"
)

// keysetPage appends the cursor condition and LIMIT for a newest-first listing keyed by
// (sortColumn, request_id). It returns the fetch limit, one more than the page size.
func keysetPage(query string, args []any, sortColumn string, limit int, nextToken *string) (string, []any, int, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	if nextToken != nil && *nextToken != "" {
		lastTS, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return "", nil, 0, fmt.Errorf("%w: invalid pagination token: %v", apperrors.ErrValidation, err)
		}
		args = append(args, lastTS, lastID)
		query += fmt.Sprintf(" AND (%s, request_id) < ($%d, $%d)", sortColumn, len(args)-1, len(args))
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY %s DESC, request_id DESC LIMIT $%d", sortColumn, len(args))
	return query, args, limit, nil
}

type PgxPayrollApprovalRepository struct {
	BaseRepository
}

// newPgxPayrollApprovalRepository creates a new repository for payroll approval requests.
func newPgxPayrollApprovalRepository(pool *pgxpool.Pool) portsrepo.PayrollApprovalRepositoryFacade {
	return &PgxPayrollApprovalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollApprovalRepositoryFacade = (*PgxPayrollApprovalRepository)(nil)

const payrollColumns = `request_id, tenant_id, period_month, period_year, total_gross_pay, total_deductions,
		       total_net_pay, total_employees, approval_status, requested_by, finance_approval, hr_approval,
		       rejection_reason, rejected_by, rejected_at, processed_by, processed_at, version,
		       created_at, created_by, last_updated_at, last_updated_by`

func scanPayroll(row pgx.Row) (domain.PayrollApprovalRequest, error) {
	var m models.PayrollApprovalRequest
	err := row.Scan(
		&m.RequestID,
		&m.TenantID,
		&m.PeriodMonth,
		&m.PeriodYear,
		&m.TotalGrossPay,
		&m.TotalDeductions,
		&m.TotalNetPay,
		&m.TotalEmployees,
		&m.ApprovalStatus,
		&m.RequestedBy,
		&m.FinanceApproval,
		&m.HRApproval,
		&m.RejectionReason,
		&m.RejectedBy,
		&m.RejectedAt,
		&m.ProcessedBy,
		&m.ProcessedAt,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.PayrollApprovalRequest{}, err
	}
	return mapping.ToDomainPayrollRequest(m)
}

func payrollArgs(m models.PayrollApprovalRequest) []any {
	return []any{
		m.RequestID, m.TenantID, m.PeriodMonth, m.PeriodYear, m.TotalGrossPay, m.TotalDeductions,
		m.TotalNetPay, m.TotalEmployees, m.ApprovalStatus, m.RequestedBy, m.FinanceApproval, m.HRApproval,
		m.RejectionReason, m.RejectedBy, m.RejectedAt, m.ProcessedBy, m.ProcessedAt, m.Version,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func (r *PgxPayrollApprovalRepository) FindPayrollRequestByID(ctx context.Context, tenantID, requestID string) (*domain.PayrollApprovalRequest, error) {
	if uuid.Validate(requestID) != nil {
		return nil, apperrors.NewNotFoundError("payroll request " + requestID)
	}
	query := "SELECT " + payrollColumns + " FROM payroll_approval_requests WHERE tenant_id = $1 AND request_id = $2"
	req, err := scanPayroll(r.db(ctx).QueryRow(ctx, query, tenantID, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payroll request " + requestID)
		}
		return nil, mapPgError(err, "failed to find payroll request "+requestID)
	}
	return &req, nil
}

func (r *PgxPayrollApprovalRepository) ListPayrollRequests(ctx context.Context, tenantID string, filter domain.PayrollFilter, limit int, nextToken *string) ([]domain.PayrollApprovalRequest, *string, error) {
	query := "SELECT " + payrollColumns + " FROM payroll_approval_requests WHERE tenant_id = $1"
	args := []any{tenantID}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		query += " AND approval_status = ANY($" + strconv.Itoa(len(args)) + ")"
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		query += " AND period_year = $" + strconv.Itoa(len(args))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		query += " AND period_month = $" + strconv.Itoa(len(args))
	}

	query, args, limit, err := keysetPage(query, args, "created_at", limit, nextToken)
	if err != nil {
		return nil, nil, err
	}
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to list payroll requests for tenant "+tenantID)
	}
	defer rows.Close()

	var results []domain.PayrollApprovalRequest
	for rows.Next() {
		req, err := scanPayroll(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan payroll request", err)
		}
		results = append(results, req)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating payroll requests", err)
	}

	var next *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ID)
		next = &token
		results = results[:limit]
	}
	return results, next, nil
}

func (r *PgxPayrollApprovalRepository) CreatePayrollRequest(ctx context.Context, req domain.PayrollApprovalRequest) error {
	m, err := mapping.ToModelPayrollRequest(req)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode payroll request", err)
	}
	query := `
		INSERT INTO payroll_approval_requests (` + payrollColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	if _, err := r.db(ctx).Exec(ctx, query, payrollArgs(m)...); err != nil {
		err = mapPgError(err, "failed to create payroll request "+req.ID)
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: payroll request %s", apperrors.ErrDuplicate, req.ID)
		}
		return err
	}
	return nil
}

func (r *PgxPayrollApprovalRepository) UpdatePayrollRequest(ctx context.Context, req domain.PayrollApprovalRequest, expectedVersion int64) error {
	m, err := mapping.ToModelPayrollRequest(req)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode payroll request", err)
	}
	query := `
		UPDATE payroll_approval_requests
		SET approval_status = $3, finance_approval = $4, hr_approval = $5, rejection_reason = $6,
		    rejected_by = $7, rejected_at = $8, processed_by = $9, processed_at = $10, version = $11,
		    last_updated_at = $12, last_updated_by = $13
		WHERE tenant_id = $1 AND request_id = $2 AND version = $14;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.TenantID, m.RequestID, m.ApprovalStatus, m.FinanceApproval, m.HRApproval, m.RejectionReason,
		m.RejectedBy, m.RejectedAt, m.ProcessedBy, m.ProcessedAt, m.Version,
		m.LastUpdatedAt, m.LastUpdatedBy, expectedVersion,
	)
	if err != nil {
		return mapPgError(err, "failed to update payroll request "+req.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payroll request %s is no longer at version %d", apperrors.ErrConflict, req.ID, expectedVersion)
	}
	return nil
}

type PgxSalesMarketingApprovalRepository struct {
	BaseRepository
}

// newPgxSalesMarketingApprovalRepository creates a new repository for sales & marketing requests.
func newPgxSalesMarketingApprovalRepository(pool *pgxpool.Pool) portsrepo.SalesMarketingApprovalRepositoryFacade {
	return &PgxSalesMarketingApprovalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SalesMarketingApprovalRepositoryFacade = (*PgxSalesMarketingApprovalRepository)(nil)

const salesMarketingColumns = `request_id, tenant_id, reference, request_type, amount, category, budget_category,
		       description, status, requested_by, requested_at, approved_by, approved_at, approval_comments,
		       version, created_at, created_by, last_updated_at, last_updated_by`

func scanSalesMarketing(row pgx.Row) (domain.SalesMarketingApprovalRequest, error) {
	var m models.SalesMarketingApprovalRequest
	err := row.Scan(
		&m.RequestID,
		&m.TenantID,
		&m.Reference,
		&m.RequestType,
		&m.Amount,
		&m.Category,
		&m.BudgetCategory,
		&m.Description,
		&m.Status,
		&m.RequestedBy,
		&m.RequestedAt,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.ApprovalComments,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.SalesMarketingApprovalRequest{}, err
	}
	return mapping.ToDomainSalesMarketingRequest(m), nil
}

func (r *PgxSalesMarketingApprovalRepository) FindSalesMarketingRequestByID(ctx context.Context, tenantID, requestID string) (*domain.SalesMarketingApprovalRequest, error) {
	if uuid.Validate(requestID) != nil {
		return nil, apperrors.NewNotFoundError("sales & marketing request " + requestID)
	}
	query := "SELECT " + salesMarketingColumns + " FROM sales_marketing_approval_requests WHERE tenant_id = $1 AND request_id = $2"
	req, err := scanSalesMarketing(r.db(ctx).QueryRow(ctx, query, tenantID, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("sales & marketing request " + requestID)
		}
		return nil, mapPgError(err, "failed to find sales & marketing request "+requestID)
	}
	return &req, nil
}

func (r *PgxSalesMarketingApprovalRepository) ListSalesMarketingRequests(ctx context.Context, tenantID string, filter domain.SalesMarketingFilter, limit int, nextToken *string) ([]domain.SalesMarketingApprovalRequest, *string, error) {
	conds := []string{"tenant_id = $1"}
	args := []any{tenantID}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, "status = ANY($"+strconv.Itoa(len(args))+")")
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conds = append(conds, "request_type = $"+strconv.Itoa(len(args)))
	}
	query := "SELECT " + salesMarketingColumns + " FROM sales_marketing_approval_requests WHERE " + strings.Join(conds, " AND ")

	query, args, limit, err := keysetPage(query, args, "requested_at", limit, nextToken)
	if err != nil {
		return nil, nil, err
	}
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to list sales & marketing requests for tenant "+tenantID)
	}
	defer rows.Close()

	var results []domain.SalesMarketingApprovalRequest
	for rows.Next() {
		req, err := scanSalesMarketing(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan sales & marketing request", err)
		}
		results = append(results, req)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating sales & marketing requests", err)
	}

	var next *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeToken(last.RequestedAt, last.ID)
		next = &token
		results = results[:limit]
	}
	return results, next, nil
}

func (r *PgxSalesMarketingApprovalRepository) CreateSalesMarketingRequest(ctx context.Context, req domain.SalesMarketingApprovalRequest) error {
	m := mapping.ToModelSalesMarketingRequest(req)
	query := `
		INSERT INTO sales_marketing_approval_requests (` + salesMarketingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.RequestID, m.TenantID, m.Reference, m.RequestType, m.Amount, m.Category, m.BudgetCategory,
		m.Description, m.Status, m.RequestedBy, m.RequestedAt, m.ApprovedBy, m.ApprovedAt, m.ApprovalComments,
		m.Version, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		err = mapPgError(err, "failed to create sales & marketing request "+req.ID)
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("%w: sales & marketing request %s", apperrors.ErrDuplicate, req.ID)
		}
		return err
	}
	return nil
}

func (r *PgxSalesMarketingApprovalRepository) UpdateSalesMarketingRequest(ctx context.Context, req domain.SalesMarketingApprovalRequest, expectedVersion int64) error {
	m := mapping.ToModelSalesMarketingRequest(req)
	query := `
		UPDATE sales_marketing_approval_requests
		SET status = $3, approved_by = $4, approved_at = $5, approval_comments = $6, version = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE tenant_id = $1 AND request_id = $2 AND version = $10;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.TenantID, m.RequestID, m.Status, m.ApprovedBy, m.ApprovedAt, m.ApprovalComments, m.Version,
		m.LastUpdatedAt, m.LastUpdatedBy, expectedVersion,
	)
	if err != nil {
		return mapPgError(err, "failed to update sales & marketing request "+req.ID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: sales & marketing request %s is no longer at version %d", apperrors.ErrConflict, req.ID, expectedVersion)
	}
	return nil
}

package repositories

import (
	"context"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
)

// PayrollApprovalReader defines read operations for payroll requests
type PayrollApprovalReader interface {
	FindPayrollRequestByID(ctx context.Context, tenantID, requestID string) (*domain.PayrollApprovalRequest, error)

	// ListPayrollRequests returns requests newest first with token-based pagination.
	ListPayrollRequests(ctx context.Context, tenantID string, filter domain.PayrollFilter, limit int, nextToken *string) ([]domain.PayrollApprovalRequest, *string, error)
}

// PayrollApprovalWriter defines write operations for payroll requests
type PayrollApprovalWriter interface {
	CreatePayrollRequest(ctx context.Context, req domain.PayrollApprovalRequest) error

	// UpdatePayrollRequest stores req if the stored version equals expectedVersion,
	// otherwise apperrors.ErrConflict.
	UpdatePayrollRequest(ctx context.Context, req domain.PayrollApprovalRequest, expectedVersion int64) error
}

type PayrollApprovalRepositoryFacade interface {
	PayrollApprovalReader
	PayrollApprovalWriter
}

// SalesMarketingApprovalReader defines read operations for sales & marketing requests
type SalesMarketingApprovalReader interface {
	FindSalesMarketingRequestByID(ctx context.Context, tenantID, requestID string) (*domain.SalesMarketingApprovalRequest, error)
	ListSalesMarketingRequests(ctx context.Context, tenantID string, filter domain.SalesMarketingFilter, limit int, nextToken *string) ([]domain.SalesMarketingApprovalRequest, *string, error)
}

// SalesMarketingApprovalWriter defines write operations for sales & marketing requests
type SalesMarketingApprovalWriter interface {
	CreateSalesMarketingRequest(ctx context.Context, req domain.SalesMarketingApprovalRequest) error
	UpdateSalesMarketingRequest(ctx context.Context, req domain.SalesMarketingApprovalRequest, expectedVersion int64) error
}

type SalesMarketingApprovalRepositoryFacade interface {
	SalesMarketingApprovalReader
	SalesMarketingApprovalWriter
}

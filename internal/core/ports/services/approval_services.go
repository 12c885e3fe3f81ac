package services

import (
	"context"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/dto"
)

// PayrollApprovalReaderSvc defines read operations for payroll requests
type PayrollApprovalReaderSvc interface {
	GetPayrollRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.PayrollApprovalRequest, error)
	ListPendingPayroll(ctx context.Context, actor domain.Actor, params dto.ListApprovalsParams) (*dto.ListPayrollApprovalsResponse, error)
	ListPayrollHistory(ctx context.Context, actor domain.Actor, params dto.ListApprovalsParams) (*dto.ListPayrollApprovalsResponse, error)
}

// PayrollApprovalWorkflowSvc defines the payroll state machine
type PayrollApprovalWorkflowSvc interface {
	SubmitPayroll(ctx context.Context, actor domain.Actor, req dto.SubmitPayrollRequest) (*domain.PayrollApprovalRequest, error)
	ApprovePayroll(ctx context.Context, actor domain.Actor, requestID string, in dto.ApprovePayrollRequest) (*domain.PayrollApprovalRequest, error)
	RejectPayroll(ctx context.Context, actor domain.Actor, requestID string, reason string) (*domain.PayrollApprovalRequest, error)
	ProcessPayroll(ctx context.Context, actor domain.Actor, requestID string) (*domain.PayrollApprovalRequest, error)
}

type PayrollApprovalSvcFacade interface {
	PayrollApprovalReaderSvc
	PayrollApprovalWorkflowSvc
}

// SalesMarketingApprovalReaderSvc defines read operations for sales & marketing requests
type SalesMarketingApprovalReaderSvc interface {
	GetSalesMarketingRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.SalesMarketingApprovalRequest, error)
	ListSalesMarketing(ctx context.Context, actor domain.Actor, params dto.ListApprovalsParams) (*dto.ListSalesMarketingApprovalsResponse, error)
}

// SalesMarketingApprovalWorkflowSvc defines the sales & marketing state machine
type SalesMarketingApprovalWorkflowSvc interface {
	SubmitSalesMarketing(ctx context.Context, actor domain.Actor, req dto.SubmitSalesMarketingRequest) (*domain.SalesMarketingApprovalRequest, error)
	ApproveSalesMarketing(ctx context.Context, actor domain.Actor, requestID string, comments *string) (*domain.SalesMarketingApprovalRequest, error)
	RejectSalesMarketing(ctx context.Context, actor domain.Actor, requestID string, comments *string) (*domain.SalesMarketingApprovalRequest, error)
}

type SalesMarketingApprovalSvcFacade interface {
	SalesMarketingApprovalReaderSvc
	SalesMarketingApprovalWorkflowSvc
}

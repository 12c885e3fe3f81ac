package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/core/ports"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/elra_wallet/internal/core/ports/services"
	"github.com/SscSPs/elra_wallet/internal/dto"
	"github.com/SscSPs/elra_wallet/internal/utils/pagination"
)

const payrollLockKind = "payroll"

// payrollApprovalService drives payroll runs through Finance and HR sign-off.
type payrollApprovalService struct {
	approvalDeps
	repo portsrepo.PayrollApprovalRepositoryFacade
}

// NewPayrollApprovalService creates a new PayrollApprovalSvcFacade.
func NewPayrollApprovalService(txManager portsrepo.TxManager, repo portsrepo.PayrollApprovalRepositoryFacade, wallets portssvc.WalletRegistrySvc, policies PolicySet, locker ports.Locker, options ...ApprovalServiceOption) portssvc.PayrollApprovalSvcFacade {
	return &payrollApprovalService{
		approvalDeps: newApprovalDeps(txManager, wallets, policies, locker, options),
		repo:         repo,
	}
}

var _ portssvc.PayrollApprovalSvcFacade = (*payrollApprovalService)(nil)

func (s *payrollApprovalService) GetPayrollRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.PayrollApprovalRequest, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	req, err := s.repo.FindPayrollRequestByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *payrollApprovalService) ListPendingPayroll(ctx context.Context, actor domain.Actor, params dto.ListApprovalsParams) (*dto.ListPayrollApprovalsResponse, error) {
	return s.list(ctx, actor, params, func(st domain.PayrollStatus) bool { return st.IsPending() })
}

func (s *payrollApprovalService) ListPayrollHistory(ctx context.Context, actor domain.Actor, params dto.ListApprovalsParams) (*dto.ListPayrollApprovalsResponse, error) {
	return s.list(ctx, actor, params, func(st domain.PayrollStatus) bool { return st.IsTerminal() })
}

// list returns one page of requests whose status passes include. params.Status narrows it
// to a single status of the same group.
func (s *payrollApprovalService) list(ctx context.Context, actor domain.Actor, params dto.ListApprovalsParams, include func(domain.PayrollStatus) bool) (*dto.ListPayrollApprovalsResponse, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}

	filter := domain.PayrollFilter{}
	for _, st := range []domain.PayrollStatus{
		domain.PayrollPendingFinance, domain.PayrollApprovedFinance, domain.PayrollApprovedHR,
		domain.PayrollRejected, domain.PayrollProcessed,
	} {
		if include(st) {
			filter.Statuses = append(filter.Statuses, st)
		}
	}
	if params.Status != "" {
		st := domain.PayrollStatus(strings.ToLower(params.Status))
		if !include(st) {
			return nil, fmt.Errorf("%w: status %q is not valid for this listing", apperrors.ErrValidation, params.Status)
		}
		filter.Statuses = []domain.PayrollStatus{st}
	}

	limit := pagination.NormalizeLimit(params.Limit, s.defaultPageSize)
	reqs, next, err := s.repo.ListPayrollRequests(ctx, tenantID, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payroll requests", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.PayrollApprovalRequest{}
	}
	return &dto.ListPayrollApprovalsResponse{Requests: reqs, NextToken: next}, nil
}

// SubmitPayroll creates a request awaiting Finance approval. A period can only have one
// request that has not been rejected.
func (s *payrollApprovalService) SubmitPayroll(ctx context.Context, actor domain.Actor, in dto.SubmitPayrollRequest) (*domain.PayrollApprovalRequest, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	period := domain.PayrollPeriod{Month: in.Month, Year: in.Year}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	summary := domain.PayrollFinancialSummary{
		TotalGrossPay:   in.TotalGrossPay,
		TotalDeductions: in.TotalDeductions,
		TotalNetPay:     in.TotalNetPay,
		TotalEmployees:  in.TotalEmployees,
	}
	if err := summary.Validate(); err != nil {
		return nil, err
	}

	now := s.timestamp()
	req := domain.PayrollApprovalRequest{
		ID:               uuid.NewString(),
		TenantID:         tenantID,
		Period:           period,
		FinancialSummary: summary,
		ApprovalStatus:   domain.PayrollPendingFinance,
		RequestedBy:      actor.UserID,
		Version:          1,
		AuditFields:      domain.NewAuditFields(actor.UserID, now),
	}

	err = s.locker.WithLock(ctx, ports.ApprovalLockKey(payrollLockKind, tenantID+":"+period.String()), func(ctx context.Context) error {
		return s.txManager.WithinTx(ctx, func(ctx context.Context) error {
			year, month := period.Year, period.Month
			existing, _, err := s.repo.ListPayrollRequests(ctx, tenantID, domain.PayrollFilter{
				Statuses: []domain.PayrollStatus{domain.PayrollPendingFinance, domain.PayrollApprovedFinance, domain.PayrollApprovedHR, domain.PayrollProcessed},
				Year:     &year,
				Month:    &month,
			}, 1, nil)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return fmt.Errorf("%w: payroll for %s already submitted as %s", apperrors.ErrDuplicate, period, existing[0].ID)
			}
			return s.repo.CreatePayrollRequest(ctx, req)
		})
	})
	if err != nil {
		s.LogWarn(ctx, "Payroll submission failed", slog.String("tenant_id", tenantID),
			slog.String("period", period.String()), slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll approval requested",
		slog.String("request_id", req.ID),
		slog.String("tenant_id", tenantID),
		slog.String("period", period.String()),
		slog.String("net_pay", summary.TotalNetPay.StringFixed(domain.MoneyScale)))
	return &req, nil
}

// ApprovePayroll signs off the stage named by in.ExpectedStatus, or the only stage the actor
// may sign when it is empty. A request that already left that stage fails with
// InvalidTransitionError.
func (s *payrollApprovalService) ApprovePayroll(ctx context.Context, actor domain.Actor, requestID string, in dto.ApprovePayrollRequest) (*domain.PayrollApprovalRequest, error) {
	action, err := s.approveAction(actor, in.ExpectedStatus)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, requestID, action, func(req *domain.PayrollApprovalRequest, tr domain.Transition[domain.PayrollStatus]) {
		stamp := &domain.ApprovalStamp{ApprovedBy: actor.UserID, ApprovedAt: req.LastUpdatedAt}
		if in.Comments != nil {
			stamp.Comments = *in.Comments
		}
		if tr.Action == domain.ActionApproveFinance {
			req.FinanceApproval = stamp
		} else {
			req.HRApproval = stamp
		}
	})
}

// approveAction resolves which stage an approve targets.
func (s *payrollApprovalService) approveAction(actor domain.Actor, expected string) (domain.ApprovalAction, error) {
	if expected != "" {
		action, ok := domain.PayrollApproveAction(domain.PayrollStatus(strings.ToLower(expected)))
		if !ok {
			return "", fmt.Errorf("%w: %q is not an approvable payroll status", apperrors.ErrValidation, expected)
		}
		return action, nil
	}

	finance := s.policies.Check(domain.RoleFinance, actor) == nil
	hr := s.policies.Check(domain.RoleHR, actor) == nil
	switch {
	case finance && hr:
		return "", fmt.Errorf("%w: expectedStatus is required when approving both finance and hr stages", apperrors.ErrValidation)
	case finance:
		return domain.ActionApproveFinance, nil
	case hr:
		return domain.ActionApproveHR, nil
	}
	return "", fmt.Errorf("%w: finance or hr approval required", apperrors.ErrPermission)
}

func (s *payrollApprovalService) RejectPayroll(ctx context.Context, actor domain.Actor, requestID string, reason string) (*domain.PayrollApprovalRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", apperrors.ErrValidation)
	}
	return s.transition(ctx, actor, requestID, domain.ActionReject, func(req *domain.PayrollApprovalRequest, _ domain.Transition[domain.PayrollStatus]) {
		by, at := actor.UserID, req.LastUpdatedAt
		req.RejectionReason = &reason
		req.RejectedBy = &by
		req.RejectedAt = &at
	})
}

func (s *payrollApprovalService) ProcessPayroll(ctx context.Context, actor domain.Actor, requestID string) (*domain.PayrollApprovalRequest, error) {
	return s.transition(ctx, actor, requestID, domain.ActionProcess, func(req *domain.PayrollApprovalRequest, _ domain.Transition[domain.PayrollStatus]) {
		by, at := actor.UserID, req.LastUpdatedAt
		req.ProcessedBy = &by
		req.ProcessedAt = &at
	})
}

// transition moves a request along PayrollTransitions, running the wallet effect and the
// status update in one unit of work. stamp records the decision on the request.
func (s *payrollApprovalService) transition(ctx context.Context, actor domain.Actor, requestID string, action domain.ApprovalAction, stamp func(*domain.PayrollApprovalRequest, domain.Transition[domain.PayrollStatus])) (*domain.PayrollApprovalRequest, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}

	var result domain.PayrollApprovalRequest
	err = s.withTransition(ctx, payrollLockKind, requestID, tenantID, func(ctx context.Context) error {
		req, err := s.repo.FindPayrollRequestByID(ctx, tenantID, requestID)
		if err != nil {
			return err
		}
		tr, err := checkTransition(&s.approvalDeps, domain.PayrollTransitions, req.ID, req.ApprovalStatus, action, actor)
		if err != nil {
			return err
		}

		if err := s.runEffect(ctx, actor, tr.Effect, *req); err != nil {
			return err
		}

		expected := req.Version
		req.ApprovalStatus = tr.To
		req.Version++
		req.Touch(actor.UserID, s.timestamp())
		stamp(req, tr)
		if err := s.repo.UpdatePayrollRequest(ctx, *req, expected); err != nil {
			return conflictAsTransition(err, req.ID, string(tr.From), action)
		}
		result = *req
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Payroll transition refused",
			slog.String("request_id", requestID),
			slog.String("action", string(action)),
			slog.String("user_id", actor.UserID),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll request transitioned",
		slog.String("request_id", result.ID),
		slog.String("tenant_id", tenantID),
		slog.String("action", string(action)),
		slog.String("status", string(result.ApprovalStatus)),
		slog.String("user_id", actor.UserID))
	return &result, nil
}

func (s *payrollApprovalService) runEffect(ctx context.Context, actor domain.Actor, effect domain.TransitionEffect, req domain.PayrollApprovalRequest) error {
	wallet := s.wallets.ForTenant(req.TenantID)
	amount := req.FinancialSummary.TotalNetPay
	ref := domain.EntryReference{Reference: req.ID, ReferenceType: domain.ReferenceTypePayroll}

	var err error
	switch effect {
	case domain.EffectReserve:
		_, err = wallet.Reserve(ctx, actor, domain.CategoryPayroll, amount, ref)
	case domain.EffectCommitUse:
		_, err = wallet.CommitUse(ctx, actor, domain.CategoryPayroll, amount, ref)
	case domain.EffectReleaseAndReject:
		if _, err = wallet.Release(ctx, actor, domain.CategoryPayroll, amount, ref); err == nil {
			_, err = wallet.RecordDecision(ctx, actor, domain.EntryRejection, domain.CategoryPayroll, amount, ref)
		}
	case domain.EffectRecordRejection:
		_, err = wallet.RecordDecision(ctx, actor, domain.EntryRejection, domain.CategoryPayroll, amount, ref)
	case domain.EffectRecordApproval:
		_, err = wallet.RecordDecision(ctx, actor, domain.EntryApproval, domain.CategoryPayroll, amount, ref)
	default:
		err = fmt.Errorf("%w: payroll workflow has no handler for effect %s", apperrors.ErrInvariantViolation, effect)
	}
	return err
}

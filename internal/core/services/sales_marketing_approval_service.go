package services

import (
	"context"
	"errors"
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

const salesMarketingLockKind = "sales_marketing"

// salesMarketingApprovalService runs revenue and expense items past Finance.
type salesMarketingApprovalService struct {
	approvalDeps
	repo portsrepo.SalesMarketingApprovalRepositoryFacade
}

// NewSalesMarketingApprovalService creates a new SalesMarketingApprovalSvcFacade.
func NewSalesMarketingApprovalService(txManager portsrepo.TxManager, repo portsrepo.SalesMarketingApprovalRepositoryFacade, wallets portssvc.WalletRegistrySvc, policies PolicySet, locker ports.Locker, options ...ApprovalServiceOption) portssvc.SalesMarketingApprovalSvcFacade {
	return &salesMarketingApprovalService{
		approvalDeps: newApprovalDeps(txManager, wallets, policies, locker, options),
		repo:         repo,
	}
}

var _ portssvc.SalesMarketingApprovalSvcFacade = (*salesMarketingApprovalService)(nil)

func (s *salesMarketingApprovalService) GetSalesMarketingRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.SalesMarketingApprovalRequest, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	return s.repo.FindSalesMarketingRequestByID(ctx, tenantID, requestID)
}

func (s *salesMarketingApprovalService) ListSalesMarketing(ctx context.Context, actor domain.Actor, params dto.ListApprovalsParams) (*dto.ListSalesMarketingApprovalsResponse, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}

	filter := domain.SalesMarketingFilter{}
	if params.Status != "" {
		st := domain.SalesMarketingStatus(strings.ToLower(params.Status))
		switch st {
		case domain.SalesMarketingPending, domain.SalesMarketingApproved, domain.SalesMarketingRejected:
			filter.Statuses = []domain.SalesMarketingStatus{st}
		default:
			return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, params.Status)
		}
	}
	if params.Type != "" {
		t, err := domain.ParseSalesMarketingType(params.Type)
		if err != nil {
			return nil, err
		}
		filter.Type = &t
	}

	limit := pagination.NormalizeLimit(params.Limit, s.defaultPageSize)
	reqs, next, err := s.repo.ListSalesMarketingRequests(ctx, tenantID, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sales & marketing requests", slog.String("tenant_id", tenantID))
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.SalesMarketingApprovalRequest{}
	}
	return &dto.ListSalesMarketingApprovalsResponse{Requests: reqs, NextToken: next}, nil
}

// SubmitSalesMarketing creates a pending request. Sales & marketing items always draw on
// the operational budget.
func (s *salesMarketingApprovalService) SubmitSalesMarketing(ctx context.Context, actor domain.Actor, in dto.SubmitSalesMarketingRequest) (*domain.SalesMarketingApprovalRequest, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	typ, err := domain.ParseSalesMarketingType(in.Type)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePositiveAmount(in.Amount); err != nil {
		return nil, err
	}
	reference := strings.TrimSpace(in.Reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", apperrors.ErrValidation)
	}
	budget := domain.CategoryOperational
	if in.BudgetCategory != nil {
		c, err := domain.ParseBudgetCategory(*in.BudgetCategory)
		if err != nil {
			return nil, err
		}
		if c != domain.CategoryOperational {
			return nil, fmt.Errorf("%w: sales & marketing requests use the operational budget, got %s", apperrors.ErrValidation, c)
		}
	}

	now := s.timestamp()
	req := domain.SalesMarketingApprovalRequest{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		Reference:      reference,
		Type:           typ,
		Amount:         in.Amount,
		Category:       strings.TrimSpace(in.Category),
		BudgetCategory: budget,
		Description:    in.Description,
		Status:         domain.SalesMarketingPending,
		RequestedBy:    actor.UserID,
		RequestedAt:    now,
		Version:        1,
		AuditFields:    domain.NewAuditFields(actor.UserID, now),
	}

	if err := s.repo.CreateSalesMarketingRequest(ctx, req); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Sales & marketing reference already used", slog.String("tenant_id", tenantID), slog.String("reference", reference))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to create sales & marketing request", slog.String("tenant_id", tenantID))
		return nil, err
	}

	s.LogInfo(ctx, "Sales & marketing approval requested",
		slog.String("request_id", req.ID),
		slog.String("tenant_id", tenantID),
		slog.String("type", string(typ)),
		slog.String("amount", req.Amount.StringFixed(domain.MoneyScale)))
	return &req, nil
}

func (s *salesMarketingApprovalService) ApproveSalesMarketing(ctx context.Context, actor domain.Actor, requestID string, comments *string) (*domain.SalesMarketingApprovalRequest, error) {
	return s.transition(ctx, actor, requestID, domain.ActionApprove, comments)
}

func (s *salesMarketingApprovalService) RejectSalesMarketing(ctx context.Context, actor domain.Actor, requestID string, comments *string) (*domain.SalesMarketingApprovalRequest, error) {
	return s.transition(ctx, actor, requestID, domain.ActionReject, comments)
}

func (s *salesMarketingApprovalService) transition(ctx context.Context, actor domain.Actor, requestID string, action domain.ApprovalAction, comments *string) (*domain.SalesMarketingApprovalRequest, error) {
	tenantID, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}

	var result domain.SalesMarketingApprovalRequest
	err = s.withTransition(ctx, salesMarketingLockKind, requestID, tenantID, func(ctx context.Context) error {
		req, err := s.repo.FindSalesMarketingRequestByID(ctx, tenantID, requestID)
		if err != nil {
			return err
		}
		tr, err := checkTransition(&s.approvalDeps, domain.SalesMarketingTransitions, req.ID, req.Status, action, actor)
		if err != nil {
			return err
		}

		if err := s.runEffect(ctx, actor, tr.Effect, *req); err != nil {
			return err
		}

		now := s.timestamp()
		by := actor.UserID
		expected := req.Version
		req.Status = tr.To
		req.ApprovedBy = &by
		req.ApprovedAt = &now
		req.ApprovalComments = comments
		req.Version++
		req.Touch(by, now)
		if err := s.repo.UpdateSalesMarketingRequest(ctx, *req, expected); err != nil {
			return conflictAsTransition(err, req.ID, string(tr.From), action)
		}
		result = *req
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, "Sales & marketing transition refused",
			slog.String("request_id", requestID),
			slog.String("action", string(action)),
			slog.String("user_id", actor.UserID),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.LogInfo(ctx, "Sales & marketing request transitioned",
		slog.String("request_id", result.ID),
		slog.String("tenant_id", tenantID),
		slog.String("action", string(action)),
		slog.String("status", string(result.Status)))
	return &result, nil
}

func (s *salesMarketingApprovalService) runEffect(ctx context.Context, actor domain.Actor, effect domain.TransitionEffect, req domain.SalesMarketingApprovalRequest) error {
	wallet := s.wallets.ForTenant(req.TenantID)
	ref := domain.EntryReference{Reference: req.Reference, ReferenceType: domain.ReferenceTypeSalesMarketing}
	category := req.BudgetCategory

	var err error
	switch effect {
	case domain.EffectApplySalesEntry:
		if req.Type == domain.SalesMarketingRevenue {
			description := req.Description
			if description == "" {
				description = fmt.Sprintf("Sales & marketing revenue %s", req.Reference)
			}
			_, err = wallet.Deposit(ctx, actor, req.Amount, description, &category, &ref)
		} else {
			_, err = wallet.CommitUse(ctx, actor, category, req.Amount, ref)
		}
	case domain.EffectRecordRejection:
		_, err = wallet.RecordDecision(ctx, actor, domain.EntryRejection, category, req.Amount, ref)
	default:
		err = fmt.Errorf("%w: sales & marketing workflow has no handler for effect %s", apperrors.ErrInvariantViolation, effect)
	}
	return err
}

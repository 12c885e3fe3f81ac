package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
)

type payrollRepository struct {
	store *Store
}

// NewPayrollApprovalRepository creates a payroll request repository over store.
func NewPayrollApprovalRepository(store *Store) portsrepo.PayrollApprovalRepositoryFacade {
	return &payrollRepository{store: store}
}

func payrollKey(r domain.PayrollApprovalRequest) (time.Time, string) {
	return r.CreatedAt, r.ID
}

func (r *payrollRepository) FindPayrollRequestByID(ctx context.Context, tenantID, requestID string) (*domain.PayrollApprovalRequest, error) {
	var out *domain.PayrollApprovalRequest
	err := r.store.read(ctx, func(st *state) error {
		req, ok := st.payroll[scopedKey(tenantID, requestID)]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("payroll request %s not found", requestID))
		}
		out = &req
		return nil
	})
	return out, err
}

func (r *payrollRepository) ListPayrollRequests(ctx context.Context, tenantID string, filter domain.PayrollFilter, limit int, nextToken *string) ([]domain.PayrollApprovalRequest, *string, error) {
	var (
		out  []domain.PayrollApprovalRequest
		next *string
	)
	err := r.store.read(ctx, func(st *state) error {
		var matched []domain.PayrollApprovalRequest
		for _, req := range st.payroll {
			if req.TenantID != tenantID || !matchesPayroll(filter, req) {
				continue
			}
			matched = append(matched, req)
		}
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				return matched[i].CreatedAt.After(matched[j].CreatedAt)
			}
			return matched[i].ID > matched[j].ID
		})
		var err error
		out, next, err = pageAfterCursor(matched, payrollKey, limit, nextToken)
		return err
	})
	return out, next, err
}

func matchesPayroll(f domain.PayrollFilter, req domain.PayrollApprovalRequest) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if req.ApprovalStatus == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Year != nil && req.Period.Year != *f.Year {
		return false
	}
	if f.Month != nil && req.Period.Month != *f.Month {
		return false
	}
	return true
}

func (r *payrollRepository) CreatePayrollRequest(ctx context.Context, req domain.PayrollApprovalRequest) error {
	return r.store.write(ctx, func(st *state) error {
		key := scopedKey(req.TenantID, req.ID)
		if _, exists := st.payroll[key]; exists {
			return fmt.Errorf("%w: payroll request %s", apperrors.ErrDuplicate, req.ID)
		}
		st.payroll[key] = req
		return nil
	})
}

func (r *payrollRepository) UpdatePayrollRequest(ctx context.Context, req domain.PayrollApprovalRequest, expectedVersion int64) error {
	return r.store.write(ctx, func(st *state) error {
		key := scopedKey(req.TenantID, req.ID)
		current, ok := st.payroll[key]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("payroll request %s not found", req.ID))
		}
		if current.Version != expectedVersion {
			return fmt.Errorf("%w: payroll request %s is at version %d", apperrors.ErrConflict, req.ID, current.Version)
		}
		st.payroll[key] = req
		return nil
	})
}

type salesMarketingRepository struct {
	store *Store
}

// NewSalesMarketingApprovalRepository creates a sales & marketing request repository over store.
func NewSalesMarketingApprovalRepository(store *Store) portsrepo.SalesMarketingApprovalRepositoryFacade {
	return &salesMarketingRepository{store: store}
}

func salesKey(r domain.SalesMarketingApprovalRequest) (time.Time, string) {
	return r.RequestedAt, r.ID
}

func (r *salesMarketingRepository) FindSalesMarketingRequestByID(ctx context.Context, tenantID, requestID string) (*domain.SalesMarketingApprovalRequest, error) {
	var out *domain.SalesMarketingApprovalRequest
	err := r.store.read(ctx, func(st *state) error {
		req, ok := st.sales[scopedKey(tenantID, requestID)]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("sales & marketing request %s not found", requestID))
		}
		out = &req
		return nil
	})
	return out, err
}

func (r *salesMarketingRepository) ListSalesMarketingRequests(ctx context.Context, tenantID string, filter domain.SalesMarketingFilter, limit int, nextToken *string) ([]domain.SalesMarketingApprovalRequest, *string, error) {
	var (
		out  []domain.SalesMarketingApprovalRequest
		next *string
	)
	err := r.store.read(ctx, func(st *state) error {
		var matched []domain.SalesMarketingApprovalRequest
		for _, req := range st.sales {
			if req.TenantID != tenantID {
				continue
			}
			if filter.Type != nil && req.Type != *filter.Type {
				continue
			}
			if len(filter.Statuses) > 0 {
				found := false
				for _, s := range filter.Statuses {
					if req.Status == s {
						found = true
						break
					}
				}
				if !found {
					continue
				}
			}
			matched = append(matched, req)
		}
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].RequestedAt.Equal(matched[j].RequestedAt) {
				return matched[i].RequestedAt.After(matched[j].RequestedAt)
			}
			return matched[i].ID > matched[j].ID
		})
		var err error
		out, next, err = pageAfterCursor(matched, salesKey, limit, nextToken)
		return err
	})
	return out, next, err
}

func (r *salesMarketingRepository) CreateSalesMarketingRequest(ctx context.Context, req domain.SalesMarketingApprovalRequest) error {
	return r.store.write(ctx, func(st *state) error {
		key := scopedKey(req.TenantID, req.ID)
		if _, exists := st.sales[key]; exists {
			return fmt.Errorf("%w: sales & marketing request %s", apperrors.ErrDuplicate, req.ID)
		}
		for _, other := range st.sales {
			if other.TenantID == req.TenantID && other.Reference == req.Reference {
				return fmt.Errorf("%w: sales & marketing reference %s is already used by %s", apperrors.ErrDuplicate, req.Reference, other.ID)
			}
		}
		st.sales[key] = req
		return nil
	})
}

func (r *salesMarketingRepository) UpdateSalesMarketingRequest(ctx context.Context, req domain.SalesMarketingApprovalRequest, expectedVersion int64) error {
	return r.store.write(ctx, func(st *state) error {
		key := scopedKey(req.TenantID, req.ID)
		current, ok := st.sales[key]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("sales & marketing request %s not found", req.ID))
		}
		if current.Version != expectedVersion {
			return fmt.Errorf("%w: sales & marketing request %s is at version %d", apperrors.ErrConflict, req.ID, current.Version)
		}
		st.sales[key] = req
		return nil
	})
}

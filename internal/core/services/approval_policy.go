package services

import (
	"fmt"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/platform/config"
)

// PolicySet resolves the approver roles of the transition tables to concrete policies.
type PolicySet map[domain.ApproverRole]domain.ApprovalPolicy

// NewPolicySet builds the policies from the configured department names and role level.
func NewPolicySet(financeDepartment, hrDepartment string, minRoleLevel int) PolicySet {
	finance := domain.RoleRequirement{MinLevel: minRoleLevel, Department: financeDepartment}
	hr := domain.RoleRequirement{MinLevel: minRoleLevel, Department: hrDepartment}
	return PolicySet{
		domain.RoleFinance:       {Name: "finance", Requirements: []domain.RoleRequirement{finance}},
		domain.RoleHR:            {Name: "hr", Requirements: []domain.RoleRequirement{hr}},
		domain.RoleFinanceOrHR:   {Name: "finance_or_hr", Requirements: []domain.RoleRequirement{finance, hr}},
		domain.RolePayrollRunner: {Name: "payroll_runner", AllowSystem: true},
	}
}

// PolicySetFromConfig builds the policies from application config.
func PolicySetFromConfig(cfg *config.Config) PolicySet {
	return NewPolicySet(cfg.FinanceDepartment, cfg.HRDepartment, cfg.ApproverMinRoleLevel)
}

// Check returns ErrPermission unless the actor satisfies the policy of role.
// An unknown role only admits super admins.
func (p PolicySet) Check(role domain.ApproverRole, actor domain.Actor) error {
	policy, ok := p[role]
	if !ok {
		policy = domain.ApprovalPolicy{Name: string(role)}
	}
	if !policy.Permits(actor) {
		return fmt.Errorf("%w: %s approval required", apperrors.ErrPermission, policy.Name)
	}
	return nil
}

package domain

import (
	"strings"
	"time"
)

// ApprovalAction is an action an actor can take on an approval request.
type ApprovalAction string

const (
	ActionApprove ApprovalAction = "approve"
	// ActionApproveFinance and ActionApproveHR name the payroll stage being signed, so a
	// repeated approve cannot match the next stage.
	ActionApproveFinance ApprovalAction = "approve_finance"
	ActionApproveHR      ApprovalAction = "approve_hr"
	ActionReject  ApprovalAction = "reject"
	ActionProcess ApprovalAction = "process"
)

// ApproverRole names the group allowed to take a transition.
type ApproverRole string

const (
	RoleFinance       ApproverRole = "finance"
	RoleHR            ApproverRole = "hr"
	RoleFinanceOrHR   ApproverRole = "finance_or_hr"
	RolePayrollRunner ApproverRole = "payroll_runner"
)

// TransitionEffect is the wallet mutation that accompanies a transition.
type TransitionEffect string

const (
	EffectReserve          TransitionEffect = "reserve"
	EffectCommitUse        TransitionEffect = "commit_use"
	EffectReleaseAndReject TransitionEffect = "release_and_reject"
	EffectRecordRejection  TransitionEffect = "record_rejection"
	EffectRecordApproval   TransitionEffect = "record_approval"
	EffectApplySalesEntry  TransitionEffect = "apply_sales_entry"
)

// Transition is one row of a workflow transition table.
type Transition[S ~string] struct {
	From   S
	Action ApprovalAction
	Role   ApproverRole
	To     S
	Effect TransitionEffect
}

// TransitionTable is the closed set of transitions a workflow accepts.
type TransitionTable[S ~string] []Transition[S]

// Lookup finds the transition for (from, action).
func (t TransitionTable[S]) Lookup(from S, action ApprovalAction) (Transition[S], bool) {
	for _, tr := range t {
		if tr.From == from && tr.Action == action {
			return tr, true
		}
	}
	return Transition[S]{}, false
}

// RoleRequirement is a minimum role level within a department.
type RoleRequirement struct {
	MinLevel   int
	Department string
}

// ApprovalPolicy decides whether an actor may take a transition.
type ApprovalPolicy struct {
	Name         string
	Requirements []RoleRequirement
	AllowSystem  bool
}

// Permits reports whether the actor satisfies the policy. Super admins always pass.
func (p ApprovalPolicy) Permits(a Actor) bool {
	if a.IsSuperAdmin {
		return true
	}
	if p.AllowSystem && a.IsSystem {
		return true
	}
	for _, req := range p.Requirements {
		if a.RoleLevel >= req.MinLevel && strings.EqualFold(a.Department, req.Department) {
			return true
		}
	}
	return false
}

// ApprovalStamp records who signed off a stage.
type ApprovalStamp struct {
	ApprovedBy string    `json:"approvedBy"`
	ApprovedAt time.Time `json:"approvedAt"`
	Comments   string    `json:"comments,omitempty"`
}

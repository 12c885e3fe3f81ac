package mapping

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/models"
)

func encodeStamp(s *domain.ApprovalStamp) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func decodeStamp(raw []byte) (*domain.ApprovalStamp, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s domain.ApprovalStamp
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	s.ApprovedAt = s.ApprovedAt.UTC()
	return &s, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// ToModelPayrollRequest converts a domain PayrollApprovalRequest to a model PayrollApprovalRequest
func ToModelPayrollRequest(d domain.PayrollApprovalRequest) (models.PayrollApprovalRequest, error) {
	finance, err := encodeStamp(d.FinanceApproval)
	if err != nil {
		return models.PayrollApprovalRequest{}, fmt.Errorf("encode finance approval of %s: %w", d.ID, err)
	}
	hr, err := encodeStamp(d.HRApproval)
	if err != nil {
		return models.PayrollApprovalRequest{}, fmt.Errorf("encode hr approval of %s: %w", d.ID, err)
	}
	return models.PayrollApprovalRequest{
		RequestID:       d.ID,
		TenantID:        d.TenantID,
		PeriodMonth:     d.Period.Month,
		PeriodYear:      d.Period.Year,
		TotalGrossPay:   d.FinancialSummary.TotalGrossPay,
		TotalDeductions: d.FinancialSummary.TotalDeductions,
		TotalNetPay:     d.FinancialSummary.TotalNetPay,
		TotalEmployees:  d.FinancialSummary.TotalEmployees,
		ApprovalStatus:  string(d.ApprovalStatus),
		RequestedBy:     d.RequestedBy,
		FinanceApproval: finance,
		HRApproval:      hr,
		RejectionReason: d.RejectionReason,
		RejectedBy:      d.RejectedBy,
		RejectedAt:      d.RejectedAt,
		ProcessedBy:     d.ProcessedBy,
		ProcessedAt:     d.ProcessedAt,
		Version:         d.Version,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainPayrollRequest converts a model PayrollApprovalRequest to a domain PayrollApprovalRequest
func ToDomainPayrollRequest(m models.PayrollApprovalRequest) (domain.PayrollApprovalRequest, error) {
	finance, err := decodeStamp(m.FinanceApproval)
	if err != nil {
		return domain.PayrollApprovalRequest{}, fmt.Errorf("decode finance approval of %s: %w", m.RequestID, err)
	}
	hr, err := decodeStamp(m.HRApproval)
	if err != nil {
		return domain.PayrollApprovalRequest{}, fmt.Errorf("decode hr approval of %s: %w", m.RequestID, err)
	}
	return domain.PayrollApprovalRequest{
		ID:       m.RequestID,
		TenantID: m.TenantID,
		Period:   domain.PayrollPeriod{Month: m.PeriodMonth, Year: m.PeriodYear},
		FinancialSummary: domain.PayrollFinancialSummary{
			TotalGrossPay:   m.TotalGrossPay,
			TotalDeductions: m.TotalDeductions,
			TotalNetPay:     m.TotalNetPay,
			TotalEmployees:  m.TotalEmployees,
		},
		ApprovalStatus:  domain.PayrollStatus(m.ApprovalStatus),
		RequestedBy:     m.RequestedBy,
		FinanceApproval: finance,
		HRApproval:      hr,
		RejectionReason: m.RejectionReason,
		RejectedBy:      m.RejectedBy,
		RejectedAt:      utc(m.RejectedAt),
		ProcessedBy:     m.ProcessedBy,
		ProcessedAt:     utc(m.ProcessedAt),
		Version:         m.Version,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelSalesMarketingRequest converts a domain SalesMarketingApprovalRequest to its model
func ToModelSalesMarketingRequest(d domain.SalesMarketingApprovalRequest) models.SalesMarketingApprovalRequest {
	return models.SalesMarketingApprovalRequest{
		RequestID:        d.ID,
		TenantID:         d.TenantID,
		Reference:        d.Reference,
		RequestType:      string(d.Type),
		Amount:           d.Amount,
		Category:         d.Category,
		BudgetCategory:   string(d.BudgetCategory),
		Description:      d.Description,
		Status:           string(d.Status),
		RequestedBy:      d.RequestedBy,
		RequestedAt:      d.RequestedAt,
		ApprovedBy:       d.ApprovedBy,
		ApprovedAt:       d.ApprovedAt,
		ApprovalComments: d.ApprovalComments,
		Version:          d.Version,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSalesMarketingRequest converts a model SalesMarketingApprovalRequest to its domain form
func ToDomainSalesMarketingRequest(m models.SalesMarketingApprovalRequest) domain.SalesMarketingApprovalRequest {
	return domain.SalesMarketingApprovalRequest{
		ID:               m.RequestID,
		TenantID:         m.TenantID,
		Reference:        m.Reference,
		Type:             domain.SalesMarketingType(m.RequestType),
		Amount:           m.Amount,
		Category:         m.Category,
		BudgetCategory:   domain.BudgetCategory(m.BudgetCategory),
		Description:      m.Description,
		Status:           domain.SalesMarketingStatus(m.Status),
		RequestedBy:      m.RequestedBy,
		RequestedAt:      m.RequestedAt.UTC(),
		ApprovedBy:       m.ApprovedBy,
		ApprovedAt:       utc(m.ApprovedAt),
		ApprovalComments: m.ApprovalComments,
		Version:          m.Version,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

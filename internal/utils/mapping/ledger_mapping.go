package mapping

import (
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	m := models.LedgerEntry{
		EntryID:       d.ID,
		TenantID:      d.TenantID,
		Sequence:      d.Sequence,
		EntryType:     string(d.Type),
		Amount:        d.Amount,
		Description:   d.Description,
		Reference:     d.Reference,
		ReferenceType: d.ReferenceType,
		BalanceAfter:  d.BalanceAfter,
		CreatedAt:     d.Timestamp,
		ActorID:       d.ActorID,
	}
	if d.Category != nil {
		c := string(*d.Category)
		m.Category = &c
	}
	return m
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	d := domain.LedgerEntry{
		ID:            m.EntryID,
		TenantID:      m.TenantID,
		Sequence:      m.Sequence,
		Type:          domain.EntryType(m.EntryType),
		Amount:        m.Amount,
		Description:   m.Description,
		Reference:     m.Reference,
		ReferenceType: m.ReferenceType,
		BalanceAfter:  m.BalanceAfter,
		Timestamp:     m.CreatedAt.UTC(),
		ActorID:       m.ActorID,
	}
	if m.Category != nil {
		c := domain.BudgetCategory(*m.Category)
		d.Category = &c
	}
	return d
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}

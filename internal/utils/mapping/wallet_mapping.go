package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/models"
)

// ToModelWallet converts a domain Wallet to a model Wallet, encoding the category and
// reservation maps for the JSONB columns.
func ToModelWallet(d domain.Wallet) (models.Wallet, error) {
	categories, err := json.Marshal(d.Categories)
	if err != nil {
		return models.Wallet{}, fmt.Errorf("encode categories of wallet %s: %w", d.TenantID, err)
	}
	reservations := d.Reservations
	if reservations == nil {
		reservations = map[string]domain.Reservation{}
	}
	encodedReservations, err := json.Marshal(reservations)
	if err != nil {
		return models.Wallet{}, fmt.Errorf("encode reservations of wallet %s: %w", d.TenantID, err)
	}
	return models.Wallet{
		TenantID:       d.TenantID,
		TotalFunds:     d.TotalFunds,
		AvailableFunds: d.AvailableFunds,
		Categories:     categories,
		Reservations:   encodedReservations,
		Version:        d.Version,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

// ToDomainWallet converts a model Wallet to a domain Wallet. Categories missing from the
// stored document come back zero valued.
func ToDomainWallet(m models.Wallet) (domain.Wallet, error) {
	w := domain.NewWallet(m.TenantID)
	w.TotalFunds = m.TotalFunds
	w.AvailableFunds = m.AvailableFunds
	w.Version = m.Version
	w.UpdatedAt = m.UpdatedAt.UTC()

	stored := map[domain.BudgetCategory]domain.CategoryBalance{}
	if len(m.Categories) > 0 {
		if err := json.Unmarshal(m.Categories, &stored); err != nil {
			return domain.Wallet{}, fmt.Errorf("decode categories of wallet %s: %w", m.TenantID, err)
		}
	}
	for c, b := range stored {
		w.Categories[c] = b
	}
	if len(m.Reservations) > 0 {
		if err := json.Unmarshal(m.Reservations, &w.Reservations); err != nil {
			return domain.Wallet{}, fmt.Errorf("decode reservations of wallet %s: %w", m.TenantID, err)
		}
	}
	if w.Reservations == nil {
		w.Reservations = map[string]domain.Reservation{}
	}
	return w, nil
}

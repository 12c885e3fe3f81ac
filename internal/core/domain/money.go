package domain

import (
	"fmt"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits (minor units) every amount is held at.
const MoneyScale int32 = 2

// ValidatePositiveAmount checks an amount is > 0 and expressible in minor units.
func ValidatePositiveAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, amount.String())
	}
	return ValidateScale(amount)
}

// ValidateScale rejects amounts carrying more precision than MoneyScale.
func ValidateScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places", apperrors.ErrValidation, amount.String(), MoneyScale)
	}
	return nil
}

package pgsql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	"github.com/SscSPs/elra_wallet/internal/utils/pagination"
)

func TestWhereClause(t *testing.T) {
	payroll := domain.CategoryPayroll
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	filter := domain.LedgerFilter{
		Types:       []domain.EntryType{domain.EntryReservation, domain.EntryUse},
		Category:    &payroll,
		From:        &from,
		MaxSequence: 42,
	}

	where, args := whereClause("t1", filter)
	assert.Equal(t, "WHERE tenant_id = $1 AND sequence <= $2 AND entry_type = ANY($3) AND category = $4 AND created_at >= $5", where)
	require.Len(t, args, 5)
	assert.Equal(t, int64(42), args[1])
	assert.Equal(t, []string{"reservation", "use"}, args[2])
	assert.Equal(t, "payroll", args[3])

	where, args = whereClause("t1", domain.LedgerFilter{})
	assert.Equal(t, "WHERE tenant_id = $1", where)
	assert.Len(t, args, 1)
}

func TestKeysetPage(t *testing.T) {
	base := "SELECT * FROM payroll_approval_requests WHERE tenant_id = $1"

	query, args, limit, err := keysetPage(base, []any{"t1"}, "created_at", 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, limit)
	assert.Equal(t, base+" ORDER BY created_at DESC, request_id DESC LIMIT $2", query)
	assert.Equal(t, []any{"t1", 11}, args)

	token := pagination.EncodeToken(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "req-9")
	query, args, _, err = keysetPage(base, []any{"t1"}, "created_at", 0, &token)
	require.NoError(t, err)
	assert.Contains(t, query, "AND (created_at, request_id) < ($2, $3)")
	assert.Contains(t, query, "LIMIT $4")
	assert.Equal(t, pagination.DefaultLimit+1, args[3])

	bad := "%%%"
	_, _, _, err = keysetPage(base, []any{"t1"}, "created_at", 10, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

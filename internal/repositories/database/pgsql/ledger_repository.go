package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/elra_wallet/internal/apperrors"
	"github.com/SscSPs/elra_wallet/internal/core/domain"
	portsrepo "github.com/SscSPs/elra_wallet/internal/core/ports/repositories"
	"github.com/SscSPs/elra_wallet/internal/models"
	"github.com/SscSPs/elra_wallet/internal/utils/mapping"
	"github.com/SscSPs/elra_wallet/internal/utils/pagination"
)

const ledgerColumns = `entry_id, tenant_id, sequence, entry_type, amount, description, reference,
		       reference_type, category, balance_after, created_at, actor_id`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the append-only ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.Sequence,
		&m.EntryType,
		&m.Amount,
		&m.Description,
		&m.Reference,
		&m.ReferenceType,
		&m.Category,
		&m.BalanceAfter,
		&m.CreatedAt,
		&m.ActorID,
	)
	return m, err
}

func collectLedgerEntries(rows pgx.Rows) ([]models.LedgerEntry, error) {
	defer rows.Close()
	var out []models.LedgerEntry
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AppendEntry is the only write the ledger accepts. The previous entry is read inside the
// caller's unit of work; the (tenant_id, sequence) unique key rejects a concurrent append.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	prev, err := r.LastEntry(ctx, entry.TenantID)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	if err := domain.ValidateAppend(prev, entry); err != nil {
		return domain.LedgerEntry{}, err
	}

	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = r.db(ctx).Exec(ctx, query,
		m.EntryID,
		m.TenantID,
		m.Sequence,
		m.EntryType,
		m.Amount,
		m.Description,
		m.Reference,
		m.ReferenceType,
		m.Category,
		m.BalanceAfter,
		m.CreatedAt,
		m.ActorID,
	)
	if err != nil {
		return domain.LedgerEntry{}, mapPgError(err, "failed to append ledger entry "+m.EntryID)
	}
	return entry, nil
}

// whereClause renders filter as SQL conditions starting at placeholder $1 = tenant.
func whereClause(tenantID string, filter domain.LedgerFilter) (string, []any) {
	conds := []string{"tenant_id = $1"}
	args := []any{tenantID}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.MaxSequence > 0 {
		add("sequence <= ?", filter.MaxSequence)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		add("entry_type = ANY(?)", types)
	}
	if filter.Category != nil {
		add("category = ?", string(*filter.Category))
	}
	if filter.From != nil {
		add("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		add("created_at < ?", *filter.To)
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *PgxLedgerRepository) QueryEntries(ctx context.Context, tenantID string, filter domain.LedgerFilter, page domain.LedgerPage) ([]domain.LedgerEntry, *string, error) {
	limit := page.Limit
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	// One extra row tells us whether there is a next page
	fetchLimit := limit + 1

	where, args := whereClause(tenantID, filter)
	if page.Cursor != nil && *page.Cursor != "" {
		lastTS, lastID, decodeErr := pagination.DecodeToken(*page.Cursor)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token: %v", apperrors.ErrValidation, decodeErr)
		}
		args = append(args, lastTS, lastID)
		where += " AND (created_at, entry_id) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")"
	}

	query := "SELECT " + ledgerColumns + " FROM ledger_entries " + where +
		" ORDER BY created_at DESC, entry_id DESC LIMIT $" + strconv.Itoa(len(args)+1)
	args = append(args, fetchLimit)
	if (page.Cursor == nil || *page.Cursor == "") && page.Offset > 0 {
		query += " OFFSET $" + strconv.Itoa(len(args)+1)
		args = append(args, page.Offset)
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query ledger entries for tenant "+tenantID)
	}
	results, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entries for tenant "+tenantID, err)
	}

	var nextToken *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextToken = &token
		results = results[:limit]
	}
	return mapping.ToDomainLedgerEntrySlice(results), nextToken, nil
}

func (r *PgxLedgerRepository) CountEntries(ctx context.Context, tenantID string, filter domain.LedgerFilter) (int, error) {
	where, args := whereClause(tenantID, filter)
	var count int
	if err := r.db(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM ledger_entries "+where, args...).Scan(&count); err != nil {
		return 0, mapPgError(err, "failed to count ledger entries for tenant "+tenantID)
	}
	return count, nil
}

func (r *PgxLedgerRepository) ListAllEntries(ctx context.Context, tenantID string, maxSequence int64) ([]domain.LedgerEntry, error) {
	query := "SELECT " + ledgerColumns + " FROM ledger_entries WHERE tenant_id = $1"
	args := []any{tenantID}
	if maxSequence > 0 {
		query += " AND sequence <= $2"
		args = append(args, maxSequence)
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to list ledger entries for tenant "+tenantID)
	}
	results, err := collectLedgerEntries(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan ledger entries for tenant "+tenantID, err)
	}
	return mapping.ToDomainLedgerEntrySlice(results), nil
}

func (r *PgxLedgerRepository) LastEntry(ctx context.Context, tenantID string) (*domain.LedgerEntry, error) {
	query := "SELECT " + ledgerColumns + " FROM ledger_entries WHERE tenant_id = $1 ORDER BY sequence DESC LIMIT 1"
	m, err := scanLedgerEntry(r.db(ctx).QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapPgError(err, "failed to read last ledger entry for tenant "+tenantID)
	}
	e := mapping.ToDomainLedgerEntry(m)
	return &e, nil
}

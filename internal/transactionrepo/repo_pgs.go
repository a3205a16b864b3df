// Package transactionrepo manages repository layer of the transaction ledger.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/pkg/dbpkg"
	"github.com/octacity/octa-bank/pkg/errorspkg"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const transactionColumns = `
id, user_id, type, amount, currency, status, description, sender_name, receiver_name, effective_at, created_at`

func scanTransaction(row *sql.Row) (domain.Transaction, error) {
	var (
		t           domain.Transaction
		effectiveAt sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Type,
		&t.Amount,
		&t.Currency,
		&t.Status,
		&t.Description,
		&t.SenderName,
		&t.ReceiverName,
		&effectiveAt,
		&t.CreatedAt,
	)

	if effectiveAt.Valid {
		t.EffectiveAt = &effectiveAt.Time
	}

	return t, err
}

const createQuery = `
INSERT INTO transactions (
    user_id, type, amount, currency, status, description, sender_name, receiver_name, effective_at
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
) RETURNING` + transactionColumns

// Create appends the ledger entry and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var effectiveAt sql.NullTime
	if arg.EffectiveAt != nil {
		effectiveAt = sql.NullTime{Time: *arg.EffectiveAt, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.UserID,
		arg.Type,
		arg.Amount,
		arg.Currency,
		arg.Status,
		arg.Description,
		arg.SenderName,
		arg.ReceiverName,
		effectiveAt,
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Send()
		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT` + transactionColumns + `
FROM transactions
WHERE id = $1 LIMIT 1
`

// Get returns the ledger entry with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const setStatusQuery = `
UPDATE transactions
SET status = $2
WHERE id = $1
RETURNING` + transactionColumns

// SetStatus persists the new status of the entry and returns it.
func (r *RepoPGS) SetStatus(ctx context.Context, id int64, status string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	t, err := scanTransaction(r.db.QueryRowContext(ctx, setStatusQuery, id, status))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

// Effective date first (backdated if present), creation time next,
// serial id last so the order is total even for equal timestamps.
const orderClause = `
ORDER BY COALESCE(effective_at, created_at) DESC, created_at DESC, id DESC`

const listForUserQuery = `
SELECT` + transactionColumns + `
FROM transactions
WHERE user_id = $1` + orderClause

// ListForUser returns the user's ledger entries, most recent first.
func (r *RepoPGS) ListForUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listForUserQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var (
			t           domain.Transaction
			effectiveAt sql.NullTime
		)

		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Type,
			&t.Amount,
			&t.Currency,
			&t.Status,
			&t.Description,
			&t.SenderName,
			&t.ReceiverName,
			&effectiveAt,
			&t.CreatedAt,
		)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		if effectiveAt.Valid {
			t.EffectiveAt = &effectiveAt.Time
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const listAllQuery = `
SELECT
    t.id, t.user_id, t.type, t.amount, t.currency, t.status, t.description,
    t.sender_name, t.receiver_name, t.effective_at, t.created_at,
    u.full_name, u.email
FROM transactions t
JOIN users u ON u.id = t.user_id
ORDER BY COALESCE(t.effective_at, t.created_at) DESC, t.created_at DESC, t.id DESC
`

// ListAllWithUsers returns every ledger entry with its account identity
// resolved, most recent first.
func (r *RepoPGS) ListAllWithUsers(ctx context.Context) ([]domain.TransactionWithUser, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listAllQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.TransactionWithUser{}

	for rows.Next() {
		var (
			t           domain.TransactionWithUser
			effectiveAt sql.NullTime
		)

		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Type,
			&t.Amount,
			&t.Currency,
			&t.Status,
			&t.Description,
			&t.SenderName,
			&t.ReceiverName,
			&effectiveAt,
			&t.CreatedAt,
			&t.UserFullName,
			&t.UserEmail,
		)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		if effectiveAt.Valid {
			t.EffectiveAt = &effectiveAt.Time
		}

		items = append(items, t)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

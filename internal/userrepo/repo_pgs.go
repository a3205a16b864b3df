// Package userrepo manages repository layer of users.
package userrepo

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/pkg/dbpkg"
	"github.com/octacity/octa-bank/pkg/errorspkg"
)

// RepoPGS facilitates user repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns user RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const userColumns = `
id, full_name, email, phone, address, hashed_password, role, balance, currency, is_verified, created_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User

	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.Phone,
		&u.Address,
		&u.HashedPassword,
		&u.Role,
		&u.Balance,
		&u.Currency,
		&u.IsVerified,
		&u.CreatedAt,
	)

	return u, err
}

const createQuery = `
INSERT INTO users (
    id, full_name, email, phone, address, hashed_password, role, is_verified
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8
) RETURNING` + userColumns

// Create creates the user with zero balance and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.ID,
		arg.FullName,
		arg.Email,
		arg.Phone,
		arg.Address,
		arg.HashedPassword,
		arg.Role,
		arg.IsVerified,
	)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "users_email_key" {
				return u, domain.ErrEmailAlreadyExists
			}
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getQuery = `
SELECT` + userColumns + `
FROM users
WHERE id = $1
`

// Get returns the user with the given id.
func (r *RepoPGS) Get(ctx context.Context, id string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	u, err := scanUser(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const getByEmailQuery = `
SELECT` + userColumns + `
FROM users
WHERE email = $1
`

// GetByEmail returns the user with the given email.
func (r *RepoPGS) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	u, err := scanUser(r.db.QueryRowContext(ctx, getByEmailQuery, email))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const listQuery = `
SELECT` + userColumns + `
FROM users
ORDER BY created_at DESC, id
`

// List returns all users, newest first.
func (r *RepoPGS) List(ctx context.Context) ([]domain.User, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.User{}

	for rows.Next() {
		var u domain.User

		err := rows.Scan(
			&u.ID,
			&u.FullName,
			&u.Email,
			&u.Phone,
			&u.Address,
			&u.HashedPassword,
			&u.Role,
			&u.Balance,
			&u.Currency,
			&u.IsVerified,
			&u.CreatedAt,
		)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, u)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const addBalanceQuery = `
UPDATE users
SET balance = balance + $1
WHERE id = $2
RETURNING` + userColumns

// AddBalance accumulates the given signed amount into the user's balance
// in a single server-side update and returns the changed user.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, id string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	u, err := scanUser(r.db.QueryRowContext(ctx, addBalanceQuery, amount, id))
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

const updateQuery = `
UPDATE users
SET
    balance = COALESCE($2::numeric, balance),
    is_verified = COALESCE($3::boolean, is_verified),
    role = COALESCE($4::text, role)
WHERE id = $1
RETURNING` + userColumns

// Update overwrites the provided fields of the user and returns it.
// A non-nil Balance replaces the stored balance outright.
func (r *RepoPGS) Update(ctx context.Context, arg domain.UpdateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, updateQuery,
		arg.UserID,
		arg.Balance,
		arg.IsVerified,
		arg.Role,
	)

	u, err := scanUser(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return u, domain.ErrUserNotFound
		}

		return u, errorspkg.ErrInternal
	}

	return u, nil
}

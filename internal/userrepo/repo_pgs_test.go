package userrepo

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/pkg/randompkg"
)

var userRowColumns = []string{
	"id", "full_name", "email", "phone", "address", "hashed_password",
	"role", "balance", "currency", "is_verified", "created_at",
}

func newMock(t *testing.T) (*RepoPGS, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepoPGS(db), mock
}

func userRow(u domain.User) *sqlmock.Rows {
	return sqlmock.NewRows(userRowColumns).AddRow(
		u.ID, u.FullName, u.Email, u.Phone, u.Address, u.HashedPassword,
		u.Role, u.Balance, u.Currency, u.IsVerified, u.CreatedAt,
	)
}

func randomUser() domain.User {
	return domain.User{
		ID:        uuid.NewString(),
		FullName:  randompkg.FullName(),
		Email:     randompkg.Email(),
		Phone:     randompkg.Phone(),
		Address:   randompkg.Address(),
		Role:      domain.RoleUser,
		Balance:   "0",
		Currency:  "USD",
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)

	user := randomUser()

	mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
		WithArgs(user.ID, user.FullName, user.Email, user.Phone, user.Address,
			user.HashedPassword, user.Role, user.IsVerified).
		WillReturnRows(userRow(user))

	got, err := repo.Create(context.Background(), domain.CreateUserParams{
		ID:             user.ID,
		FullName:       user.FullName,
		Email:          user.Email,
		Phone:          user.Phone,
		Address:        user.Address,
		HashedPassword: user.HashedPassword,
		Role:           user.Role,
		IsVerified:     user.IsVerified,
	})
	require.NoError(t, err)
	require.Equal(t, user, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo, mock := newMock(t)

	user := randomUser()

	mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Create(context.Background(), domain.CreateUserParams{
		ID:    user.ID,
		Email: user.Email,
	})
	require.EqualError(t, err, domain.ErrEmailAlreadyExists.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	repo, mock := newMock(t)

	user := randomUser()

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs(user.ID).
		WillReturnRows(userRow(user))

	got, err := repo.Get(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	require.EqualError(t, err, domain.ErrUserNotFound.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNotFound(t *testing.T) {
	repo, mock := newMock(t)

	email := randompkg.Email()

	mock.ExpectQuery(regexp.QuoteMeta(getByEmailQuery)).
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), email)
	require.EqualError(t, err, domain.ErrUserNotFound.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	repo, mock := newMock(t)

	first := randomUser()
	second := randomUser()

	rows := sqlmock.NewRows(userRowColumns).
		AddRow(first.ID, first.FullName, first.Email, first.Phone, first.Address,
			first.HashedPassword, first.Role, first.Balance, first.Currency,
			first.IsVerified, first.CreatedAt).
		AddRow(second.ID, second.FullName, second.Email, second.Phone, second.Address,
			second.HashedPassword, second.Role, second.Balance, second.Currency,
			second.IsVerified, second.CreatedAt)

	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnRows(rows)

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.User{first, second}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The balance must be accumulated server-side in a single update.
func TestAddBalance(t *testing.T) {
	repo, mock := newMock(t)

	user := randomUser()
	user.Balance = "250"

	mock.ExpectQuery(regexp.QuoteMeta(addBalanceQuery)).
		WithArgs("-50", user.ID).
		WillReturnRows(userRow(user))

	got, err := repo.AddBalance(context.Background(), "-50", user.ID)
	require.NoError(t, err)
	require.Equal(t, "250", got.Balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBalanceUnknownUser(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(addBalanceQuery)).
		WithArgs("100", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.AddBalance(context.Background(), "100", "missing")
	require.EqualError(t, err, domain.ErrUserNotFound.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	repo, mock := newMock(t)

	user := randomUser()
	user.Balance = "9000"
	user.IsVerified = true

	balance := "9000"
	verified := true

	mock.ExpectQuery(regexp.QuoteMeta(updateQuery)).
		WithArgs(user.ID, "9000", true, nil).
		WillReturnRows(userRow(user))

	got, err := repo.Update(context.Background(), domain.UpdateUserParams{
		UserID:     user.ID,
		Balance:    &balance,
		IsVerified: &verified,
	})
	require.NoError(t, err)
	require.Equal(t, "9000", got.Balance)
	require.True(t, got.IsVerified)
	require.NoError(t, mock.ExpectationsWereMet())
}

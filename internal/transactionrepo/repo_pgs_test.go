package transactionrepo

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/octacity/octa-bank/internal/domain"
)

var transactionRowColumns = []string{
	"id", "user_id", "type", "amount", "currency", "status", "description",
	"sender_name", "receiver_name", "effective_at", "created_at",
}

func newMock(t *testing.T) (*RepoPGS, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepoPGS(db), mock
}

func transactionRow(tr domain.Transaction) *sqlmock.Rows {
	var effectiveAt interface{}
	if tr.EffectiveAt != nil {
		effectiveAt = *tr.EffectiveAt
	}

	return sqlmock.NewRows(transactionRowColumns).AddRow(
		tr.ID, tr.UserID, tr.Type, tr.Amount, tr.Currency, tr.Status,
		tr.Description, tr.SenderName, tr.ReceiverName, effectiveAt, tr.CreatedAt,
	)
}

func TestCreate(t *testing.T) {
	repo, mock := newMock(t)

	want := domain.Transaction{
		ID:        1,
		UserID:    uuid.NewString(),
		Type:      domain.TypeDeposit,
		Amount:    "500",
		Currency:  "USD",
		Status:    domain.StatusCompleted,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}

	mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
		WithArgs(want.UserID, want.Type, want.Amount, want.Currency, want.Status,
			"", "", "", nil).
		WillReturnRows(transactionRow(want))

	got, err := repo.Create(context.Background(), domain.CreateTransactionParams{
		UserID:   want.UserID,
		Type:     want.Type,
		Amount:   want.Amount,
		Currency: want.Currency,
		Status:   want.Status,
	})
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Nil(t, got.EffectiveAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBackdated(t *testing.T) {
	repo, mock := newMock(t)

	backdate := time.Now().AddDate(0, -1, 0).Truncate(time.Second).UTC()

	want := domain.Transaction{
		ID:          2,
		UserID:      uuid.NewString(),
		Type:        domain.TypeGrant,
		Amount:      "1000",
		Currency:    "USD",
		Status:      domain.StatusPending,
		EffectiveAt: &backdate,
		CreatedAt:   time.Now().Truncate(time.Second).UTC(),
	}

	mock.ExpectQuery(regexp.QuoteMeta(createQuery)).
		WithArgs(want.UserID, want.Type, want.Amount, want.Currency, want.Status,
			"", "", "", backdate).
		WillReturnRows(transactionRow(want))

	got, err := repo.Create(context.Background(), domain.CreateTransactionParams{
		UserID:      want.UserID,
		Type:        want.Type,
		Amount:      want.Amount,
		Currency:    want.Currency,
		Status:      want.Status,
		EffectiveAt: &backdate,
	})
	require.NoError(t, err)
	require.NotNil(t, got.EffectiveAt)
	require.True(t, backdate.Equal(*got.EffectiveAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 404)
	require.EqualError(t, err, domain.ErrTransactionNotFound.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus(t *testing.T) {
	repo, mock := newMock(t)

	want := domain.Transaction{
		ID:        7,
		UserID:    uuid.NewString(),
		Type:      domain.TypeWithdrawal,
		Amount:    "200",
		Currency:  "USD",
		Status:    domain.StatusCompleted,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}

	mock.ExpectQuery(regexp.QuoteMeta(setStatusQuery)).
		WithArgs(want.ID, domain.StatusCompleted).
		WillReturnRows(transactionRow(want))

	got, err := repo.SetStatus(context.Background(), want.ID, domain.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, got.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatusNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(setStatusQuery)).
		WithArgs(int64(404), domain.StatusFailed).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SetStatus(context.Background(), 404, domain.StatusFailed)
	require.EqualError(t, err, domain.ErrTransactionNotFound.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUser(t *testing.T) {
	repo, mock := newMock(t)

	userID := uuid.NewString()
	now := time.Now().Truncate(time.Second).UTC()
	backdate := now.AddDate(0, 0, -3)

	rows := sqlmock.NewRows(transactionRowColumns).
		AddRow(int64(2), userID, domain.TypeDeposit, "500", "USD",
			domain.StatusCompleted, "", "", "", nil, now).
		AddRow(int64(1), userID, domain.TypeWithdrawal, "100", "USD",
			domain.StatusCompleted, "", "", "", backdate, now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(listForUserQuery)).
		WithArgs(userID).
		WillReturnRows(rows)

	got, err := repo.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Nil(t, got[0].EffectiveAt)
	require.NotNil(t, got[1].EffectiveAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllWithUsers(t *testing.T) {
	repo, mock := newMock(t)

	userID := uuid.NewString()
	now := time.Now().Truncate(time.Second).UTC()

	columns := append(append([]string{}, transactionRowColumns...), "full_name", "email")

	rows := sqlmock.NewRows(columns).
		AddRow(int64(1), userID, domain.TypeDeposit, "500", "USD",
			domain.StatusCompleted, "", "", "", nil, now,
			"Ada Lovelace", "ada@email.com")

	mock.ExpectQuery(regexp.QuoteMeta(listAllQuery)).WillReturnRows(rows)

	got, err := repo.ListAllWithUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Ada Lovelace", got[0].UserFullName)
	require.Equal(t, "ada@email.com", got[0].UserEmail)
	require.NoError(t, mock.ExpectationsWereMet())
}

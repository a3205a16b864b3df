// Package transactionservice manages business logic layer of the ledger.
// It is the sole writer of account balances apart from the explicit
// administrative override in the user service.
package transactionservice

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/pkg/currencypkg"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)
	Get(ctx context.Context, id int64) (domain.Transaction, error)
	SetStatus(ctx context.Context, id int64, status string) (domain.Transaction, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Transaction, error)
	ListAllWithUsers(ctx context.Context) ([]domain.TransactionWithUser, error)
}

// AccountRepo provides the account access needed to apply balance deltas.
// AddBalance must accumulate server-side in a single update.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type AccountRepo interface {
	Get(ctx context.Context, id string) (domain.User, error)
	AddBalance(ctx context.Context, amount string, id string) (domain.User, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo     Repo
	accounts AccountRepo
}

// New returns transaction service struct to manage ledger bussines logic.
func New(tr Repo, ar AccountRepo) *Service {
	return &Service{
		repo:     tr,
		accounts: ar,
	}
}

func validAmount(ctx context.Context, amount string) (decimal.Decimal, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	if amountDecimal.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}

	return amountDecimal, nil
}

// RecordTransaction validates and appends a ledger entry. When ApplyBalance
// is set and the entry is created completed, the signed delta implied by the
// entry type is accumulated into the account balance. The returned user is
// the account snapshot after any change.
func (s *Service) RecordTransaction(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransactionResult, error) {
	var result domain.TransactionResult

	amount, err := validAmount(ctx, arg.Amount)
	if err != nil {
		return result, err
	}

	if !domain.IsValidTransactionType(arg.Type) {
		return result, domain.ErrInvalidTransactionType
	}

	if arg.Status == "" {
		arg.Status = domain.StatusCompleted
	}

	if !domain.IsValidTransactionStatus(arg.Status) {
		return result, domain.ErrInvalidTransactionStatus
	}

	if arg.Currency == "" {
		arg.Currency = currencypkg.USD
	}

	user, err := s.accounts.Get(ctx, arg.UserID)
	if err != nil {
		return result, err
	}

	transaction, err := s.repo.Create(ctx, arg)
	if err != nil {
		return result, err
	}

	// The entry write and the balance increment are two store operations.
	// A crash in between leaves a completed entry with no applied delta.
	if arg.ApplyBalance && arg.Status == domain.StatusCompleted {
		delta := domain.TypeDelta(arg.Type, amount)

		user, err = s.accounts.AddBalance(ctx, delta.String(), arg.UserID)
		if err != nil {
			return result, err
		}
	}

	result.Transaction = transaction
	result.User = user

	return result, nil
}

// TransitionStatus moves the entry to the new status. The first transition
// into completed applies the entry's delta to the account balance; repeating
// it is a no-op on balance. Leaving completed never reverses the delta.
func (s *Service) TransitionStatus(ctx context.Context, id int64, newStatus string) (domain.Transaction, error) {
	if !domain.IsValidTransactionStatus(newStatus) {
		return domain.Transaction{}, domain.ErrInvalidTransactionStatus
	}

	transaction, err := s.repo.Get(ctx, id)
	if err != nil {
		return transaction, err
	}

	if newStatus == domain.StatusCompleted && transaction.Status != domain.StatusCompleted {
		amount, err := validAmount(ctx, transaction.Amount)
		if err != nil {
			return transaction, err
		}

		delta := domain.TypeDelta(transaction.Type, amount)

		if _, err = s.accounts.AddBalance(ctx, delta.String(), transaction.UserID); err != nil {
			return transaction, err
		}
	}

	return s.repo.SetStatus(ctx, id, newStatus)
}

// ListForAccount returns the ledger of one account, most recent first.
// Non-admin principals always get their own ledger regardless of userID.
func (s *Service) ListForAccount(ctx context.Context, principal domain.Principal, userID string) ([]domain.Transaction, error) {
	if !principal.IsAdmin() || userID == "" {
		userID = principal.UserID
	}

	return s.repo.ListForUser(ctx, userID)
}

// ListAll returns every ledger entry with account identity resolved.
// Restricted to admins.
func (s *Service) ListAll(ctx context.Context, principal domain.Principal) ([]domain.TransactionWithUser, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}

	return s.repo.ListAllWithUsers(ctx)
}

// Package userservice manages business logic layer of users.
package userservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/pkg/errorspkg"
	"github.com/octacity/octa-bank/pkg/passpkg"
)

// Repo provides data access layer interface needed by user service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package userservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateUserParams) (domain.User, error)
	Get(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, arg domain.UpdateUserParams) (domain.User, error)
}

// Service facilitates user service layer logic.
type Service struct {
	repo Repo
}

// New returns user service struct to manage user bussines logic.
func New(ur Repo) *Service {
	return &Service{
		repo: ur,
	}
}

// Create registers a user with zero balance, the user role and an
// unverified flag.
func (s *Service) Create(ctx context.Context, fullName, email, phone, address, password string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	var result domain.User

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		ID:             uuid.NewString(),
		FullName:       fullName,
		Email:          strings.ToLower(email),
		Phone:          phone,
		Address:        address,
		HashedPassword: hashedPassword,
		Role:           domain.RoleUser,
	}

	return s.repo.Create(ctx, arg)
}

// EnsureAdmin creates the verified admin account if no account holds the
// given email yet. Safe to call on every startup.
func (s *Service) EnsureAdmin(ctx context.Context, fullName, email, password string) error {
	l := zerolog.Ctx(ctx)

	_, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err == nil {
		return nil
	}

	if err != domain.ErrUserNotFound {
		return err
	}

	hashedPassword, err := passpkg.Hash(password)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrInternal
	}

	arg := domain.CreateUserParams{
		ID:             uuid.NewString(),
		FullName:       fullName,
		Email:          strings.ToLower(email),
		Phone:          "+1000000000",
		Address:        "Octa Bank HQ",
		HashedPassword: hashedPassword,
		Role:           domain.RoleAdmin,
		IsVerified:     true,
	}

	_, err = s.repo.Create(ctx, arg)

	return err
}

// CheckPassword checks if the password is valid for the given email.
func (s *Service) CheckPassword(ctx context.Context, email, password string) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	var result domain.User

	gotUser, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return result, err
	}

	if err := passpkg.Check(password, gotUser.HashedPassword); err != nil {
		l.Warn().Err(err).Send()
		return result, domain.ErrWrongPassword
	}

	return gotUser, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (domain.User, error) {
	return s.repo.Get(ctx, id)
}

// List returns all registered users. Restricted to admins.
func (s *Service) List(ctx context.Context, principal domain.Principal) ([]domain.User, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}

	return s.repo.List(ctx)
}

// Update applies the admin-side partial update. A non-nil Balance replaces
// the stored balance outright without writing a ledger entry.
func (s *Service) Update(ctx context.Context, principal domain.Principal, arg domain.UpdateUserParams) (domain.User, error) {
	l := zerolog.Ctx(ctx)

	var result domain.User

	if !principal.IsAdmin() {
		return result, domain.ErrAdminRequired
	}

	if arg.Balance != nil {
		if _, err := decimal.NewFromString(*arg.Balance); err != nil {
			l.Info().Err(err).Send()
			return result, domain.ErrInvalidAmount
		}
	}

	if arg.Role != nil && !domain.IsValidRole(*arg.Role) {
		return result, domain.ErrInvalidRole
	}

	return s.repo.Update(ctx, arg)
}

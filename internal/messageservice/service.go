// Package messageservice manages business logic layer of conversation threads.
package messageservice

import (
	"context"
	"strings"

	"github.com/octacity/octa-bank/internal/domain"
)

// Repo provides data access layer interface needed by message service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package messageservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateMessageParams) (domain.Message, error)
	ListThread(ctx context.Context, userID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, userID string, direction domain.ReadDirection) (int64, error)
	ListThreadSummaries(ctx context.Context) ([]domain.ThreadSummary, error)
}

// UserGetter resolves the sender's display name.
//
//go:generate mockgen -source service.go -destination service_mock.go -package messageservice
type UserGetter interface {
	Get(ctx context.Context, id string) (domain.User, error)
}

// Service facilitates message service layer logic.
type Service struct {
	repo  Repo
	users UserGetter
}

// New returns message service struct to manage conversation bussines logic.
func New(mr Repo, ug UserGetter) *Service {
	return &Service{
		repo:  mr,
		users: ug,
	}
}

// Send appends a message from the principal to the thread. Content must be
// non-empty after trimming. ReceiverID is only meaningful for admin senders.
func (s *Service) Send(ctx context.Context, principal domain.Principal, receiverID, content string) (domain.Message, error) {
	var result domain.Message

	content = strings.TrimSpace(content)
	if content == "" {
		return result, domain.ErrEmptyMessageContent
	}

	sender, err := s.users.Get(ctx, principal.UserID)
	if err != nil {
		return result, err
	}

	arg := domain.CreateMessageParams{
		SenderID:   principal.UserID,
		ReceiverID: receiverID,
		SenderRole: principal.Role,
		SenderName: sender.FullName,
		Content:    content,
	}

	return s.repo.Create(ctx, arg)
}

// ListThread returns one user-admin thread oldest first. Non-admin
// principals always get their own thread regardless of userID.
func (s *Service) ListThread(ctx context.Context, principal domain.Principal, userID string) ([]domain.Message, error) {
	if !principal.IsAdmin() || userID == "" {
		userID = principal.UserID
	}

	return s.repo.ListThread(ctx, userID)
}

// MarkRead bulk-flips the unread messages the principal is reading.
// An admin flips the user-authored side of the given thread, a user flips
// the admin-authored side of their own. Idempotent.
func (s *Service) MarkRead(ctx context.Context, principal domain.Principal, userID string) (int64, error) {
	if principal.IsAdmin() && userID != "" {
		return s.repo.MarkRead(ctx, userID, domain.AdminReadingUserMessages)
	}

	return s.repo.MarkRead(ctx, principal.UserID, domain.UserReadingAdminMessages)
}

// ListThreadSummaries returns the admin inbox digest, newest thread first.
func (s *Service) ListThreadSummaries(ctx context.Context, principal domain.Principal) ([]domain.ThreadSummary, error) {
	if !principal.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}

	return s.repo.ListThreadSummaries(ctx)
}

// Package messagerepo manages repository layer of conversation messages.
package messagerepo

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/octacity/octa-bank/internal/domain"
	"github.com/octacity/octa-bank/pkg/dbpkg"
	"github.com/octacity/octa-bank/pkg/errorspkg"
)

// RepoPGS facilitates message repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns message RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

const messageColumns = `
id, sender_id, receiver_id, sender_role, sender_name, content, is_read, created_at`

const createQuery = `
INSERT INTO messages (
    sender_id, receiver_id, sender_role, sender_name, content
) VALUES (
    $1, $2, $3, $4, $5
) RETURNING` + messageColumns

// Create appends the message unread and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateMessageParams) (domain.Message, error) {
	l := zerolog.Ctx(ctx)

	var receiverID sql.NullString
	if arg.ReceiverID != "" {
		receiverID = sql.NullString{String: arg.ReceiverID, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.SenderID,
		receiverID,
		arg.SenderRole,
		arg.SenderName,
		arg.Content,
	)

	var (
		m        domain.Message
		receiver sql.NullString
	)

	err := row.Scan(
		&m.ID,
		&m.SenderID,
		&receiver,
		&m.SenderRole,
		&m.SenderName,
		&m.Content,
		&m.IsRead,
		&m.CreatedAt,
	)
	if err != nil {
		l.Error().Err(err).Send()
		return m, errorspkg.ErrInternal
	}

	m.ReceiverID = receiver.String

	return m, nil
}

const listThreadQuery = `
SELECT` + messageColumns + `
FROM messages
WHERE sender_id = $1 OR receiver_id = $1
ORDER BY created_at, id
`

// ListThread returns the whole thread of the given user, oldest first.
func (r *RepoPGS) ListThread(ctx context.Context, userID string) ([]domain.Message, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listThreadQuery, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Message{}

	for rows.Next() {
		var (
			m        domain.Message
			receiver sql.NullString
		)

		err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&receiver,
			&m.SenderRole,
			&m.SenderName,
			&m.Content,
			&m.IsRead,
			&m.CreatedAt,
		)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		m.ReceiverID = receiver.String

		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const markUserMessagesReadQuery = `
UPDATE messages
SET is_read = TRUE
WHERE sender_id = $1 AND sender_role = 'user' AND is_read = FALSE
`

const markAdminMessagesReadQuery = `
UPDATE messages
SET is_read = TRUE
WHERE receiver_id = $1 AND sender_role = 'admin' AND is_read = FALSE
`

// MarkRead bulk-flips the unread messages of one thread side to read and
// returns the number of flipped messages. Re-invoking flips nothing.
func (r *RepoPGS) MarkRead(ctx context.Context, userID string, direction domain.ReadDirection) (int64, error) {
	l := zerolog.Ctx(ctx)

	query := markAdminMessagesReadQuery
	if direction == domain.AdminReadingUserMessages {
		query = markUserMessagesReadQuery
	}

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	flipped, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return flipped, nil
}

const listThreadSummariesQuery = `
SELECT latest.sender_id, latest.full_name, latest.email, latest.content, latest.created_at, latest.unread_count
FROM (
    SELECT DISTINCT ON (m.sender_id)
        m.sender_id, u.full_name, u.email, m.content, m.created_at,
        COUNT(*) FILTER (WHERE NOT m.is_read) OVER (PARTITION BY m.sender_id) AS unread_count
    FROM messages m
    JOIN users u ON u.id = m.sender_id
    WHERE m.sender_role = 'user'
    ORDER BY m.sender_id, m.created_at DESC, m.id DESC
) latest
ORDER BY latest.created_at DESC
`

// ListThreadSummaries returns one digest per user thread: the latest message
// and the unread count of messages authored by the user, newest thread first.
func (r *RepoPGS) ListThreadSummaries(ctx context.Context) ([]domain.ThreadSummary, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listThreadSummariesQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.ThreadSummary{}

	for rows.Next() {
		var s domain.ThreadSummary

		err := rows.Scan(
			&s.UserID,
			&s.UserFullName,
			&s.UserEmail,
			&s.LastMessage,
			&s.LastDate,
			&s.UnreadCount,
		)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

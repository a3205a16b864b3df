package domain

import (
	"errors"
	"time"
)

// ErrEmptyMessageContent indicates a message that is empty after trimming.
var ErrEmptyMessageContent = errors.New("message content is required")

// ReadDirection selects which side of a thread a mark-read call flips.
type ReadDirection string

// Mark-read directions. Marking is one-way and idempotent.
const (
	AdminReadingUserMessages ReadDirection = "admin-reading-user-messages"
	UserReadingAdminMessages ReadDirection = "user-reading-admin-messages"
)

// Message holds one entry of a user-admin conversation thread.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	SenderRole string    `json:"senderRole"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateMessageParams is the input data to append a message to a thread.
type CreateMessageParams struct {
	SenderID   string
	ReceiverID string
	SenderRole string
	SenderName string
	Content    string
}

// ThreadSummary is the admin-side digest of one user thread: the latest
// message and the count of unread messages authored by the user.
type ThreadSummary struct {
	UserID       string    `json:"userId"`
	UserFullName string    `json:"userFullName"`
	UserEmail    string    `json:"userEmail"`
	LastMessage  string    `json:"lastMessage"`
	LastDate     time.Time `json:"lastDate"`
	UnreadCount  int32     `json:"unreadCount"`
}

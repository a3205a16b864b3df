package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidAmount indicates an amount that is not a positive number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidTransactionType indicates a type outside the enumerated set.
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	// ErrInvalidTransactionStatus indicates a status outside the enumerated set.
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
)

// Transaction types. Withdrawal and donation are debits, the rest are credits.
const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
	TypeTransfer   = "transfer"
	TypeGrant      = "grant"
	TypeDonation   = "donation"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// IsValidTransactionType returns true for one of the five enumerated types.
func IsValidTransactionType(t string) bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeTransfer, TypeGrant, TypeDonation:
		return true
	}

	return false
}

// IsValidTransactionStatus returns true for one of the three enumerated statuses.
func IsValidTransactionStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}

	return false
}

// TypeDelta returns the signed balance change implied by the transaction type.
// The sign is fixed by the type, never stored.
func TypeDelta(transactionType string, amount decimal.Decimal) decimal.Decimal {
	switch transactionType {
	case TypeWithdrawal, TypeDonation:
		return amount.Neg()
	}

	return amount
}

// Transaction holds one ledger entry referencing a user by id.
type Transaction struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"userId"`
	Type         string     `json:"type"`
	Amount       string     `json:"amount"` // must be positive
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	Description  string     `json:"description"`
	SenderName   string     `json:"senderName"`
	ReceiverName string     `json:"receiverName"`
	// EffectiveAt is the optional backdated date; ordering falls back to CreatedAt.
	EffectiveAt *time.Time `json:"transactionDate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// EffectiveTime returns the backdated date if present, else the creation time.
func (t Transaction) EffectiveTime() time.Time {
	if t.EffectiveAt != nil {
		return *t.EffectiveAt
	}

	return t.CreatedAt
}

// CreateTransactionParams is the input data for recording a ledger entry.
type CreateTransactionParams struct {
	UserID       string
	Type         string
	Amount       string
	Currency     string
	Status       string
	Description  string
	SenderName   string
	ReceiverName string
	EffectiveAt  *time.Time
	ApplyBalance bool
}

// TransactionResult is the created entry plus the account snapshot after
// any balance change.
type TransactionResult struct {
	Transaction Transaction `json:"transaction"`
	User        User        `json:"user"`
}

// TransactionWithUser is a ledger entry with its account identity resolved
// for admin-wide listings.
type TransactionWithUser struct {
	Transaction
	UserFullName string `json:"userFullName"`
	UserEmail    string `json:"userEmail"`
}

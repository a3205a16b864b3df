package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTypeDelta(t *testing.T) {
	amount := decimal.NewFromInt(100)

	testCases := []struct {
		transactionType string
		want            string
	}{
		{TypeDeposit, "100"},
		{TypeTransfer, "100"},
		{TypeGrant, "100"},
		{TypeWithdrawal, "-100"},
		{TypeDonation, "-100"},
	}

	for _, tc := range testCases {
		t.Run(tc.transactionType, func(t *testing.T) {
			require.Equal(t, tc.want, TypeDelta(tc.transactionType, amount).String())
		})
	}
}

func TestEffectiveTime(t *testing.T) {
	created := time.Now()
	backdate := created.AddDate(0, -2, 0)

	entry := Transaction{CreatedAt: created}
	require.Equal(t, created, entry.EffectiveTime())

	entry.EffectiveAt = &backdate
	require.Equal(t, backdate, entry.EffectiveTime())
}

func TestTransactionEnums(t *testing.T) {
	require.True(t, IsValidTransactionType(TypeDeposit))
	require.False(t, IsValidTransactionType("refund"))
	require.False(t, IsValidTransactionType(""))

	require.True(t, IsValidTransactionStatus(StatusPending))
	require.False(t, IsValidTransactionStatus("reversed"))
	require.False(t, IsValidTransactionStatus(""))
}

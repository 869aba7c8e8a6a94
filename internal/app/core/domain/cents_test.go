package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 金額運算必須做溢位檢查，不允許默默繞回
func TestCentsAdd(t *testing.T) {
	sum, err := Cents(200).Add(600)
	require.NoError(t, err)
	assert.Equal(t, Cents(800), sum)

	// 負數相加
	sum, err = Cents(100).Add(-30)
	require.NoError(t, err)
	assert.Equal(t, Cents(70), sum)

	// 上溢
	_, err = Cents(math.MaxInt64).Add(1)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	// 下溢
	_, err = Cents(math.MinInt64).Add(-1)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestCentsSub(t *testing.T) {
	diff, err := Cents(800).Sub(300)
	require.NoError(t, err)
	assert.Equal(t, Cents(500), diff)

	_, err = Cents(math.MinInt64).Sub(1)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	_, err = Cents(math.MaxInt64).Sub(-1)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

// 存款與利息為加項，提款為減項
func TestKindApply(t *testing.T) {
	cases := []struct {
		name    string
		kind    TransactionKind
		balance Cents
		amount  Cents
		want    Cents
	}{
		{"deposit", TransactionKindDeposit, 200, 600, 800},
		{"interest", TransactionKindInterest, 10000, 100, 10100},
		{"withdrawal", TransactionKindWithdrawal, 800, 300, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.kind.Apply(tc.balance, tc.amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := TransactionKind(99).Apply(0, 1)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestRequestStateTerminal(t *testing.T) {
	assert.False(t, RequestStatePending.Terminal())
	assert.True(t, RequestStateApproved.Terminal())
	assert.True(t, RequestStateRejected.Terminal())
}

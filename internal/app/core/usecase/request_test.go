package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sporto/kic/internal/app/core/domain"
)

func TestCreateRequestValidates(t *testing.T) {
	core, e := newCore(t)
	ctx := context.Background()

	_, err := core.CreateRequest(ctx, e.investor2, 10, domain.TransactionKindDeposit, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	// 利息不可申請
	_, err = core.CreateRequest(ctx, e.investor2, 10, domain.TransactionKindInterest, 100)
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	_, err = core.CreateRequest(ctx, e.investor5, 10, domain.TransactionKindDeposit, 100)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateRequestPending(t *testing.T) {
	core, e := newCore(t)

	req, err := core.CreateRequest(context.Background(), e.investor2, 10, domain.TransactionKindWithdrawal, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatePending, req.State)
	assert.Equal(t, int64(10), req.AccountID)
	assert.Equal(t, domain.Cents(100), req.Amount)
}

// 核准後執行底層存款，申請轉為 Approved
func TestApproveExecutesDeposit(t *testing.T) {
	core, e := newCore(t)
	ctx := context.Background()

	req, err := core.CreateRequest(ctx, e.investor2, 10, domain.TransactionKindDeposit, 300)
	require.NoError(t, err)

	tran, err := core.ApproveRequest(ctx, req.ID, e.admin1)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionKindDeposit, tran.Kind)
	assert.Equal(t, domain.Cents(300), tran.Balance)

	stored, err := e.store.Request(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStateApproved, stored.State)
}

// 核准時餘額不足: 錯誤上拋，申請停留在 Pending，帳本不動
func TestApproveInsufficientFundsStaysPending(t *testing.T) {
	core, e := newCore(t)
	ctx := context.Background()

	_, err := core.Deposit(ctx, e.investor2, 10, 50)
	require.NoError(t, err)

	req, err := core.CreateRequest(ctx, e.investor2, 10, domain.TransactionKindWithdrawal, 100)
	require.NoError(t, err)

	_, err = core.ApproveRequest(ctx, req.ID, e.admin1)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	stored, err := e.store.Request(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatePending, stored.State)

	balance, err := core.GetBalance(ctx, e.investor2, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(50), balance)
}

// 終態只能進入一次
func TestTerminalRequestCannotTransition(t *testing.T) {
	core, e := newCore(t)
	ctx := context.Background()

	req, err := core.CreateRequest(ctx, e.investor2, 10, domain.TransactionKindDeposit, 100)
	require.NoError(t, err)

	_, err = core.ApproveRequest(ctx, req.ID, e.admin1)
	require.NoError(t, err)

	_, err = core.ApproveRequest(ctx, req.ID, e.admin1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = core.RejectRequest(ctx, req.ID, e.admin1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// 駁回不碰帳本
func TestRejectRequest(t *testing.T) {
	core, e := newCore(t)
	ctx := context.Background()

	req, err := core.CreateRequest(ctx, e.investor2, 10, domain.TransactionKindWithdrawal, 100)
	require.NoError(t, err)

	rejected, err := core.RejectRequest(ctx, req.ID, e.admin1)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStateRejected, rejected.State)

	history, err := core.History(ctx, e.investor2, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	// 駁回後不可再核准
	_, err = core.ApproveRequest(ctx, req.ID, e.admin1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// 跨租戶管理員不得核准
func TestApproveUnauthorized(t *testing.T) {
	core, e := newCore(t)
	ctx := context.Background()

	req, err := core.CreateRequest(ctx, e.investor2, 10, domain.TransactionKindDeposit, 100)
	require.NoError(t, err)

	_, err = core.ApproveRequest(ctx, req.ID, e.admin4)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	stored, err := e.store.Request(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatePending, stored.State)
}

func TestRequestNotFound(t *testing.T) {
	core, e := newCore(t)
	ctx := context.Background()

	_, err := core.ApproveRequest(ctx, uuid.New(), e.admin1)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)

	_, err = core.RejectRequest(ctx, uuid.New(), e.admin1)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

// 核准/駁回事件在 commit 後派送
func TestRequestEventsDispatched(t *testing.T) {
	core, e := newCore(t)
	ctx := context.Background()

	req, err := core.CreateRequest(ctx, e.investor2, 10, domain.TransactionKindDeposit, 100)
	require.NoError(t, err)
	_, err = core.ApproveRequest(ctx, req.ID, e.admin1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		for _, event := range e.notifier.Events() {
			if event.Kind == domain.EventRequestApproved && event.RequestID == req.ID {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
)

// transition 暫存的狀態轉移，提交時再驗證並套用
type transition struct {
	id   uuid.UUID
	from domain.RequestState
	to   domain.RequestState
}

// memTx 是 WithinAccount 的暫存工作單元
// 讀取會看到自己暫存的附加 (利息入帳後緊接的餘額讀取必須含利息)，
// 提交前不對其他讀者可見
type memTx struct {
	store       *Store
	accountID   int64
	appended    []domain.Transaction
	transitions []transition
}

// latest 回傳暫存視角下的最新交易
func (m *memTx) latest(accountID int64) *domain.Transaction {
	if accountID == m.accountID && len(m.appended) > 0 {
		latest := m.appended[len(m.appended)-1]
		return &latest
	}
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	return m.store.latestLocked(accountID)
}

func (m *memTx) LatestTransaction(ctx context.Context, accountID int64) (*domain.Transaction, error) {
	return m.latest(accountID), nil
}

func (m *memTx) Transactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	history, err := m.store.Transactions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if accountID == m.accountID {
		history = append(history, m.appended...)
	}
	return history, nil
}

func (m *memTx) Balance(ctx context.Context, accountID int64) (domain.Cents, error) {
	latest := m.latest(accountID)
	if latest == nil {
		return 0, nil
	}
	return latest.Balance, nil
}

// Append 附加一筆交易到暫存區
// 前置餘額檢查在帳戶鎖之下進行，同一前置餘額不可能有兩筆成功的附加
func (m *memTx) Append(ctx context.Context, accountID int64, kind domain.TransactionKind, amount, priorBalance domain.Cents, at time.Time) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	latest := m.latest(accountID)
	prior := domain.Cents(0)
	sequence := uint64(1)
	if latest != nil {
		prior = latest.Balance
		sequence = latest.Sequence + 1
	}
	if prior != priorBalance {
		return nil, domain.ErrConcurrencyConflict
	}

	balance, err := kind.Apply(prior, amount)
	if err != nil {
		return nil, err
	}

	tran := domain.Transaction{
		Sequence:      sequence,
		AccountID:     accountID,
		Amount:        amount,
		Balance:       balance,
		CreatedAt:     at,
		TransactionID: uuid.New(),
		Kind:          kind,
	}
	m.appended = append(m.appended, tran)
	return &tran, nil
}

// TransitionRequest 暫存狀態轉移，提交時於 store 鎖下再驗證一次
func (m *memTx) TransitionRequest(ctx context.Context, id uuid.UUID, from, to domain.RequestState) error {
	req, err := m.store.Request(ctx, id)
	if err != nil {
		return err
	}
	state := req.State
	for _, tr := range m.transitions {
		if tr.id == id {
			state = tr.to
		}
	}
	if state != from {
		return domain.ErrInvalidState
	}
	m.transitions = append(m.transitions, transition{id: id, from: from, to: to})
	return nil
}

var _ usecase.Tx = (*memTx)(nil)

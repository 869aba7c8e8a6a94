package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
	"github.com/sporto/kic/pkg/journal"
)

// Store 是記憶體實作的持久層，供開發模式與測試使用
//
// 結構:
//
//	ledgers: 每個帳戶的交易歷史 (依 Sequence 遞增，僅限附加)
//	requests: 交易申請
//	locks: 每帳戶一把互斥鎖，WithinAccount 以此做帳戶範圍的獨占單元
//	journal: 附加日誌，提交的交易逐筆落盤，重啟時重播還原
type Store struct {
	mu       sync.RWMutex
	ledgers  map[int64][]domain.Transaction
	requests map[uuid.UUID]domain.TransactionRequest
	locks    map[int64]*sync.Mutex
	journal  *journal.Journal
}

// NewStore 建立記憶體儲存層
// journal 可為 nil (測試用，不落盤)；非 nil 時先重播日誌還原帳本
func NewStore(j *journal.Journal) (*Store, error) {
	s := &Store{
		ledgers:  make(map[int64][]domain.Transaction),
		requests: make(map[uuid.UUID]domain.TransactionRequest),
		locks:    make(map[int64]*sync.Mutex),
		journal:  j,
	}
	if j != nil {
		if err := s.recover(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// recover 重播日誌，重建各帳戶的交易歷史
// 只在 NewStore 內呼叫，單執行緒，無需加鎖
func (s *Store) recover() error {
	return s.journal.ReadAll(func(raw []byte) error {
		var tran domain.Transaction
		if err := json.Unmarshal(raw, &tran); err != nil {
			return err
		}
		s.ledgers[tran.AccountID] = append(s.ledgers[tran.AccountID], tran)
		return nil
	})
}

// accountLock 取得 (或建立) 指定帳戶的互斥鎖
func (s *Store) accountLock(accountID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[accountID] = lock
	}
	return lock
}

// WithinAccount 以帳戶為範圍執行原子工作單元
//
// fn 內的讀寫先暫存於 memTx，fn 成功才一次套用 (先驗證狀態轉移，再逐筆
// 寫日誌，最後更新記憶體)；fn 失敗則整批丟棄，不留任何部分寫入
func (s *Store) WithinAccount(ctx context.Context, accountID int64, fn func(ctx context.Context, tx usecase.Tx) error) error {
	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInternal, err)
	}

	tx := &memTx{store: s, accountID: accountID}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx)
}

// commit 套用工作單元的暫存寫入
// 順序: 驗證狀態轉移 -> 寫日誌 -> 附加交易 -> 套用轉移
// 日誌寫入失敗時什麼都不套用，回傳 ErrInternal
func (s *Store) commit(tx *memTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tr := range tx.transitions {
		req, ok := s.requests[tr.id]
		if !ok {
			return domain.ErrRequestNotFound
		}
		if req.State != tr.from {
			return domain.ErrInvalidState
		}
	}

	if s.journal != nil {
		for i := range tx.appended {
			if err := s.journal.Append(&tx.appended[i]); err != nil {
				return fmt.Errorf("%w: journal append: %v", domain.ErrInternal, err)
			}
		}
	}

	s.ledgers[tx.accountID] = append(s.ledgers[tx.accountID], tx.appended...)
	for _, tr := range tx.transitions {
		req := s.requests[tr.id]
		req.State = tr.to
		s.requests[tr.id] = req
	}
	return nil
}

// LatestTransaction 取得帳戶最新一筆交易，無交易時回傳 (nil, nil)
func (s *Store) LatestTransaction(ctx context.Context, accountID int64) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestLocked(accountID), nil
}

// latestLocked 呼叫端須持有 s.mu
func (s *Store) latestLocked(accountID int64) *domain.Transaction {
	history := s.ledgers[accountID]
	if len(history) == 0 {
		return nil
	}
	latest := history[len(history)-1]
	return &latest
}

// Transactions 取得帳戶完整交易歷史 (複本)
func (s *Store) Transactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.ledgers[accountID]
	out := make([]domain.Transaction, len(history))
	copy(out, history)
	return out, nil
}

// Balance 取得帳戶餘額，無交易時為 0
func (s *Store) Balance(ctx context.Context, accountID int64) (domain.Cents, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	latest := s.latestLocked(accountID)
	if latest == nil {
		return 0, nil
	}
	return latest.Balance, nil
}

// Append 在帳戶鎖之下附加單筆交易
// 一般路徑應走 WithinAccount；這裡提供的是單筆寫入的便捷包裝
func (s *Store) Append(ctx context.Context, accountID int64, kind domain.TransactionKind, amount, priorBalance domain.Cents, at time.Time) (*domain.Transaction, error) {
	var tran *domain.Transaction
	err := s.WithinAccount(ctx, accountID, func(ctx context.Context, tx usecase.Tx) error {
		var err error
		tran, err = tx.Append(ctx, accountID, kind, amount, priorBalance, at)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tran, nil
}

// CreateRequest 建立交易申請
func (s *Store) CreateRequest(ctx context.Context, req *domain.TransactionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = *req
	return nil
}

// Request 讀取交易申請 (複本)
func (s *Store) Request(ctx context.Context, id uuid.UUID) (*domain.TransactionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	return &req, nil
}

// TransitionRequest 以狀態防護轉移交易申請
func (s *Store) TransitionRequest(ctx context.Context, id uuid.UUID, from, to domain.RequestState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return domain.ErrRequestNotFound
	}
	if req.State != from {
		return domain.ErrInvalidState
	}
	req.State = to
	s.requests[id] = req
	return nil
}

var _ usecase.Store = (*Store)(nil)

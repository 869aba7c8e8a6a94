package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sporto/kic/internal/app/core/domain"
)

// Ledger 帳本讀寫介面，append-only
type Ledger interface {
	// LatestTransaction 取得帳戶最新一筆交易，無任何交易時回傳 (nil, nil)
	LatestTransaction(ctx context.Context, accountID int64) (*domain.Transaction, error)
	// Transactions 取得帳戶完整交易歷史，依 Sequence 遞增排序
	Transactions(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	// Balance 取得帳戶餘額：最新交易的快照，無交易時為 0
	Balance(ctx context.Context, accountID int64) (domain.Cents, error)
	// Append 附加一筆交易，餘額快照 = priorBalance ± amount
	// 寫入當下最新餘額已不等於 priorBalance 時回傳 ErrConcurrencyConflict:
	// 同一帳戶不允許兩筆成功的交易由同一個前置餘額算出
	Append(ctx context.Context, accountID int64, kind domain.TransactionKind, amount, priorBalance domain.Cents, at time.Time) (*domain.Transaction, error)
}

// Tx 工作單元內可用的操作集合
// WithinAccount 的 fn 內所有讀寫同屬一個原子單元，失敗時全部回滾
type Tx interface {
	Ledger
	// TransitionRequest 以狀態防護轉移交易申請: 現況必須等於 from
	// 防護失敗回傳 ErrInvalidState
	TransitionRequest(ctx context.Context, id uuid.UUID, from, to domain.RequestState) error
}

// Store 持久層介面，由 mysql 與 memory adapter 實作
type Store interface {
	Tx
	// WithinAccount 以帳戶為範圍開啟獨占的原子工作單元
	// mysql 為帳戶列 FOR UPDATE，memory 為 per-account mutex
	// 帳戶之間互相獨立，不需要跨帳戶鎖
	WithinAccount(ctx context.Context, accountID int64, fn func(ctx context.Context, tx Tx) error) error
	// CreateRequest 建立 Pending 狀態的交易申請
	CreateRequest(ctx context.Context, req *domain.TransactionRequest) error
	// Request 讀取交易申請，不存在時回傳 ErrRequestNotFound
	Request(ctx context.Context, id uuid.UUID) (*domain.TransactionRequest, error)
}

// Directory 使用者與帳戶的唯讀查詢，授權閘門依此取得歸屬關係
type Directory interface {
	// Account 查帳戶，並帶出持有人所屬租戶 ClientID
	Account(ctx context.Context, accountID int64) (*domain.Account, error)
	// User 查使用者
	User(ctx context.Context, userID int64) (*domain.User, error)
}

// Notifier 通知派送，best-effort，只在 commit 後呼叫
type Notifier interface {
	Notify(ctx context.Context, event domain.Event) error
}

// Clock 時鐘，利息計算視窗與交易時間戳皆取自這裡
// 以介面注入方便測試操控時間
type Clock interface {
	Now() time.Time
}

// SystemClock 正式環境用的時鐘
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

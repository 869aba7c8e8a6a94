package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind 交易類型
// 為了節省記憶體與儲存空間，使用 uint8
type TransactionKind uint8

const (
	// 存款
	TransactionKindDeposit TransactionKind = 1
	// 提款
	TransactionKindWithdrawal TransactionKind = 2
	// 利息
	TransactionKindInterest TransactionKind = 3
)

// String 供 Log 與通知事件使用
func (k TransactionKind) String() string {
	switch k {
	case TransactionKindDeposit:
		return "deposit"
	case TransactionKindWithdrawal:
		return "withdrawal"
	case TransactionKindInterest:
		return "interest"
	default:
		return "unknown"
	}
}

// Apply 依交易類型把金額套用到前置餘額上
// 存款與利息為加項，提款為減項；運算皆經過溢位檢查
func (k TransactionKind) Apply(balance, amount Cents) (Cents, error) {
	switch k {
	case TransactionKindDeposit, TransactionKindInterest:
		return balance.Add(amount)
	case TransactionKindWithdrawal:
		return balance.Sub(amount)
	default:
		return 0, ErrInvalidKind
	}
}

// Transaction 交易，僅限附加 (append-only)，寫入後不再更新或刪除
//
// 不變量: 依 Sequence 排序，balance[i] = balance[i-1] ± amount[i]
// 第一筆交易的前置餘額視為 0
type Transaction struct {
	// Sequence: 帳戶內單調遞增的順序號 (1, 2, 3...)
	Sequence uint64 `json:"sequence"`
	// AccountID: 帳戶 ID
	AccountID int64 `json:"account_id"`
	// Amount: 金額，一律記錄為正的量值，方向由 Kind 決定
	Amount Cents `json:"amount"`
	// Balance: 套用本筆交易後的餘額快照
	Balance Cents `json:"balance"`
	// CreatedAt: 交易時間，亦為下一次利息計算的基準點
	CreatedAt time.Time `json:"created_at"`
	// TransactionID: 外部追蹤號 (UUID)
	TransactionID uuid.UUID `json:"transaction_id"`
	// Kind: 放到最後面，利用 Padding 空間
	Kind TransactionKind `json:"kind"`
}

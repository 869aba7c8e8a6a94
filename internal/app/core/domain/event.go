package domain

import (
	"time"

	"github.com/google/uuid"
)

// 通知事件類型
const (
	EventDeposit         = "transaction.deposit"
	EventWithdrawal      = "transaction.withdrawal"
	EventRequestApproved = "request.approved"
	EventRequestRejected = "request.rejected"
)

// Event 提交成功後發出的通知事件 (best-effort)
// 只在工作單元 commit 之後派送，派送失敗不會回滾帳本
type Event struct {
	Kind          string    `json:"kind"`
	AccountID     int64     `json:"account_id"`
	TransactionID uuid.UUID `json:"transaction_id,omitempty"`
	RequestID     uuid.UUID `json:"request_id,omitempty"`
	Amount        Cents     `json:"amount"`
	Balance       Cents     `json:"balance"`
	OccurredAt    time.Time `json:"occurred_at"`
}

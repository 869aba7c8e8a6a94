package domain

import (
	"time"

	"github.com/google/uuid"
)

// RequestState 交易申請狀態
type RequestState uint8

const (
	// 待審核 (初始狀態)
	RequestStatePending RequestState = 1
	// 已核准 (終態)
	RequestStateApproved RequestState = 2
	// 已駁回 (終態)
	RequestStateRejected RequestState = 3
)

func (s RequestState) String() string {
	switch s {
	case RequestStatePending:
		return "pending"
	case RequestStateApproved:
		return "approved"
	case RequestStateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal 是否為終態，終態只能進入一次且不可再轉移
func (s RequestState) Terminal() bool {
	return s == RequestStateApproved || s == RequestStateRejected
}

// TransactionRequest 交易申請：需要第二人核准才能執行的帳本操作
// 狀態機: Pending -> Approved | Rejected，單向且恰好轉移一次
//
// 核准時才執行底層的存提款；駁回不碰帳本
type TransactionRequest struct {
	ID        uuid.UUID       `json:"id"`
	AccountID int64           `json:"account_id"`
	Amount    Cents           `json:"amount"`
	Kind      TransactionKind `json:"kind"`
	State     RequestState    `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
}

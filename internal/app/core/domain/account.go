package domain

import "time"

// Account 帳戶，建立後不可變
// 餘額不存在帳戶上，一律由帳本最新一筆交易的快照推導
// ClientID 為帳戶持有人所屬租戶，由 Directory 查詢時帶出
type Account struct {
	ID        int64
	UserID    int64
	ClientID  int64
	CreatedAt time.Time
}

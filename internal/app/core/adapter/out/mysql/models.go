package mysql

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sporto/kic/internal/app/core/domain"
)

// sqlUser 對應資料庫的 users 表
type sqlUser struct {
	ID        int64 `gorm:"primaryKey"`
	ClientID  int64 `gorm:"index"` // 租戶 ID
	Role      uint8
	CreatedAt time.Time
}

func (*sqlUser) TableName() string {
	return "users"
}

// sqlAccount 對應資料庫的 accounts 表
// 注意: 餘額不存在這張表上，一律由 transactions 最新快照推導
type sqlAccount struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"index"`
	CreatedAt time.Time
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// sqlTransaction 對應資料庫的 transactions 表，僅限附加
// (account_id, sequence) 唯一索引保證同帳戶順序號不重複
type sqlTransaction struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	RefID     []byte `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.TransactionID
	AccountID int64  `gorm:"uniqueIndex:idx_account_sequence,priority:1"`
	Sequence  uint64 `gorm:"uniqueIndex:idx_account_sequence,priority:2"`
	Kind      uint8
	Amount    int64
	Balance   int64
	CreatedAt time.Time
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

func (t *sqlTransaction) toDomain() (*domain.Transaction, error) {
	refID, err := uuid.FromBytes(t.RefID)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		Sequence:      t.Sequence,
		AccountID:     t.AccountID,
		Amount:        domain.Cents(t.Amount),
		Balance:       domain.Cents(t.Balance),
		CreatedAt:     t.CreatedAt,
		TransactionID: refID,
		Kind:          domain.TransactionKind(t.Kind),
	}, nil
}

// sqlTransactionRequest 對應資料庫的 transaction_requests 表
type sqlTransactionRequest struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	RefID     []byte `gorm:"column:ref_id;type:binary(16);uniqueIndex"`
	AccountID int64  `gorm:"index"`
	Kind      uint8
	Amount    int64
	State     uint8
	CreatedAt time.Time
}

func (*sqlTransactionRequest) TableName() string {
	return "transaction_requests"
}

func (r *sqlTransactionRequest) toDomain() (*domain.TransactionRequest, error) {
	refID, err := uuid.FromBytes(r.RefID)
	if err != nil {
		return nil, err
	}
	return &domain.TransactionRequest{
		ID:        refID,
		AccountID: r.AccountID,
		Amount:    domain.Cents(r.Amount),
		Kind:      domain.TransactionKind(r.Kind),
		State:     domain.RequestState(r.State),
		CreatedAt: r.CreatedAt,
	}, nil
}

// AutoMigrate 建立或更新本 adapter 用到的資料表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&sqlUser{},
		&sqlAccount{},
		&sqlTransaction{},
		&sqlTransactionRequest{},
	)
}

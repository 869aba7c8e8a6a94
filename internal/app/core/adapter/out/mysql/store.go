package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
	"github.com/sporto/kic/pkg/mysql"
)

// Store 是 MySQL 實作的持久層 (GORM)
// 工作單元以 db.Transaction 包裹，帳戶列 FOR UPDATE 做悲觀鎖
type Store struct {
	client *mysql.Client
}

func NewStore(client *mysql.Client) *Store {
	return &Store{
		client: client,
	}
}

// WithinAccount 以帳戶為範圍開啟原子工作單元
//
// 先對帳戶列取得 UPDATE 鎖，同帳戶的並發單元在此互相排隊，
// fn 內的餘額讀取必然反映所有先前已提交的交易。fn 回傳錯誤時
// 整個資料庫事務回滾，不留部分寫入
func (s *Store) WithinAccount(ctx context.Context, accountID int64, fn func(ctx context.Context, tx usecase.Tx) error) error {
	return s.client.DB().WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		var account sqlAccount
		err := gtx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&account, "id = ?", accountID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return wrapInternal(err)
		}
		return fn(ctx, &sqlTx{db: gtx})
	})
}

func (s *Store) LatestTransaction(ctx context.Context, accountID int64) (*domain.Transaction, error) {
	return latestTransaction(s.client.DB().WithContext(ctx), accountID)
}

func (s *Store) Transactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return transactions(s.client.DB().WithContext(ctx), accountID)
}

func (s *Store) Balance(ctx context.Context, accountID int64) (domain.Cents, error) {
	return balance(s.client.DB().WithContext(ctx), accountID)
}

// Append 單筆附加的便捷包裝，仍走 WithinAccount 取得帳戶鎖
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

func (s *Store) CreateRequest(ctx context.Context, req *domain.TransactionRequest) error {
	row := sqlTransactionRequest{
		RefID:     req.ID[:],
		AccountID: req.AccountID,
		Kind:      uint8(req.Kind),
		Amount:    int64(req.Amount),
		State:     uint8(req.State),
		CreatedAt: req.CreatedAt,
	}
	if err := s.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		return wrapInternal(err)
	}
	return nil
}

func (s *Store) Request(ctx context.Context, id uuid.UUID) (*domain.TransactionRequest, error) {
	var row sqlTransactionRequest
	err := s.client.DB().WithContext(ctx).First(&row, "ref_id = ?", id[:]).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, wrapInternal(err)
	}
	return row.toDomain()
}

func (s *Store) TransitionRequest(ctx context.Context, id uuid.UUID, from, to domain.RequestState) error {
	return transitionRequest(s.client.DB().WithContext(ctx), id, from, to)
}

// sqlTx 是工作單元內的操作集合，持有事務範圍的 *gorm.DB
type sqlTx struct {
	db *gorm.DB
}

func (t *sqlTx) LatestTransaction(ctx context.Context, accountID int64) (*domain.Transaction, error) {
	return latestTransaction(t.db, accountID)
}

func (t *sqlTx) Transactions(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return transactions(t.db, accountID)
}

func (t *sqlTx) Balance(ctx context.Context, accountID int64) (domain.Cents, error) {
	return balance(t.db, accountID)
}

func (t *sqlTx) Append(ctx context.Context, accountID int64, kind domain.TransactionKind, amount, priorBalance domain.Cents, at time.Time) (*domain.Transaction, error) {
	return appendTransaction(t.db, accountID, kind, amount, priorBalance, at)
}

func (t *sqlTx) TransitionRequest(ctx context.Context, id uuid.UUID, from, to domain.RequestState) error {
	return transitionRequest(t.db, id, from, to)
}

// latestTransaction 取帳戶最新一筆交易，無交易時回傳 (nil, nil)
func latestTransaction(db *gorm.DB, accountID int64) (*domain.Transaction, error) {
	var row sqlTransaction
	err := db.Where("account_id = ?", accountID).
		Order("sequence DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapInternal(err)
	}
	return row.toDomain()
}

func transactions(db *gorm.DB, accountID int64) ([]domain.Transaction, error) {
	var rows []sqlTransaction
	err := db.Where("account_id = ?", accountID).
		Order("sequence ASC").
		Find(&rows).Error
	if err != nil {
		return nil, wrapInternal(err)
	}
	out := make([]domain.Transaction, 0, len(rows))
	for i := range rows {
		tran, err := rows[i].toDomain()
		if err != nil {
			return nil, wrapInternal(err)
		}
		out = append(out, *tran)
	}
	return out, nil
}

func balance(db *gorm.DB, accountID int64) (domain.Cents, error) {
	latest, err := latestTransaction(db, accountID)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.Balance, nil
}

// appendTransaction 附加一筆交易
// 寫入前重驗前置餘額，與 priorBalance 不符回傳 ErrConcurrencyConflict
// (帳戶鎖之下理論上不會發生，此檢查讓不變量不依賴鎖的存在)
func appendTransaction(db *gorm.DB, accountID int64, kind domain.TransactionKind, amount, priorBalance domain.Cents, at time.Time) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	latest, err := latestTransaction(db, accountID)
	if err != nil {
		return nil, err
	}
	prior := domain.Cents(0)
	sequence := uint64(1)
	if latest != nil {
		prior = latest.Balance
		sequence = latest.Sequence + 1
	}
	if prior != priorBalance {
		return nil, domain.ErrConcurrencyConflict
	}

	newBalance, err := kind.Apply(prior, amount)
	if err != nil {
		return nil, err
	}

	refID := uuid.New()
	row := sqlTransaction{
		RefID:     refID[:],
		AccountID: accountID,
		Sequence:  sequence,
		Kind:      uint8(kind),
		Amount:    int64(amount),
		Balance:   int64(newBalance),
		CreatedAt: at,
	}
	if err := db.Create(&row).Error; err != nil {
		return nil, wrapInternal(err)
	}
	return row.toDomain()
}

// transitionRequest 以狀態防護更新交易申請
// UPDATE ... WHERE state = from，影響列數為 0 時區分申請不存在與狀態已變
func transitionRequest(db *gorm.DB, id uuid.UUID, from, to domain.RequestState) error {
	result := db.Model(&sqlTransactionRequest{}).
		Where("ref_id = ? AND state = ?", id[:], uint8(from)).
		Update("state", uint8(to))
	if result.Error != nil {
		return wrapInternal(result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&sqlTransactionRequest{}).Where("ref_id = ?", id[:]).Count(&count).Error; err != nil {
			return wrapInternal(err)
		}
		if count == 0 {
			return domain.ErrRequestNotFound
		}
		return domain.ErrInvalidState
	}
	return nil
}

// wrapInternal 把底層儲存錯誤 (含逾時) 包進 ErrInternal
func wrapInternal(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInternal, err)
}

var (
	_ usecase.Store = (*Store)(nil)
	_ usecase.Tx    = (*sqlTx)(nil)
)

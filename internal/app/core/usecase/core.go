package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sporto/kic/internal/app/core/domain"
)

// 通知派送的逾時上限，派送不在工作單元內，逾時只記 Log
const notifyTimeout = 5 * time.Second

// CoreUseCase 是帳本核心的業務邏輯層
// 所有依賴 (儲存、目錄、通知、時鐘) 皆由建構時明確注入，不使用全域狀態
type CoreUseCase struct {
	store      Store
	directory  Directory
	notifier   Notifier
	clock      Clock
	annualRate decimal.Decimal
	logger     *zap.Logger
}

// NewCoreUseCase 建立核心業務邏輯層
//
// 參數:
//
//	store: 持久層 (帳本 + 交易申請)
//	directory: 使用者/帳戶唯讀目錄
//	notifier: 通知派送
//	clock: 時鐘
//	annualRate: 年利率 (例如 0.05 表示 5%)
//	logger: 結構化 Logger
func NewCoreUseCase(store Store, directory Directory, notifier Notifier, clock Clock, annualRate decimal.Decimal, logger *zap.Logger) *CoreUseCase {
	return &CoreUseCase{
		store:      store,
		directory:  directory,
		notifier:   notifier,
		clock:      clock,
		annualRate: annualRate,
		logger:     logger,
	}
}

// GetBalance 取得帳戶餘額，無交易時為 0
// 唯讀操作，不觸發利息入帳
func (c *CoreUseCase) GetBalance(ctx context.Context, actor *domain.User, accountID int64) (domain.Cents, error) {
	account, err := c.directory.Account(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if !CanAccess(actor, account) {
		return 0, domain.ErrUnauthorized
	}
	return c.store.Balance(ctx, accountID)
}

// History 取得帳戶完整交易歷史
func (c *CoreUseCase) History(ctx context.Context, actor *domain.User, accountID int64) ([]domain.Transaction, error) {
	account, err := c.directory.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, account) {
		return nil, domain.ErrUnauthorized
	}
	return c.store.Transactions(ctx, accountID)
}

// dispatch 派送通知事件 (fire-and-forget)
// 失敗只記 Warn，不影響已提交的帳本寫入
func (c *CoreUseCase) dispatch(event domain.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := c.notifier.Notify(ctx, event); err != nil {
			c.logger.Warn("notification dispatch failed",
				zap.String("event", event.Kind),
				zap.Int64("account_id", event.AccountID),
				zap.Error(err),
			)
		}
	}()
}

package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/sporto/kic/internal/app/core/domain"
)

// Deposit 存款
//
// 流程: 驗證金額 -> 授權 -> {利息入帳, 讀餘額, 附加交易} 一個原子單元 -> 事後通知
func (c *CoreUseCase) Deposit(ctx context.Context, actor *domain.User, accountID int64, amount domain.Cents) (*domain.Transaction, error) {
	tran, err := c.post(ctx, actor, accountID, domain.TransactionKindDeposit, amount)
	if err != nil {
		return nil, err
	}
	c.dispatch(domain.Event{
		Kind:          domain.EventDeposit,
		AccountID:     accountID,
		TransactionID: tran.TransactionID,
		Amount:        tran.Amount,
		Balance:       tran.Balance,
		OccurredAt:    tran.CreatedAt,
	})
	return tran, nil
}

// Withdraw 提款
// 利息入帳後的餘額不足以支付提款金額時回傳 ErrInsufficientFunds，不寫入任何交易
func (c *CoreUseCase) Withdraw(ctx context.Context, actor *domain.User, accountID int64, amount domain.Cents) (*domain.Transaction, error) {
	tran, err := c.post(ctx, actor, accountID, domain.TransactionKindWithdrawal, amount)
	if err != nil {
		return nil, err
	}
	c.dispatch(domain.Event{
		Kind:          domain.EventWithdrawal,
		AccountID:     accountID,
		TransactionID: tran.TransactionID,
		Amount:        tran.Amount,
		Balance:       tran.Balance,
		OccurredAt:    tran.CreatedAt,
	})
	return tran, nil
}

// post 存提款共用路徑
// 驗證與授權在任何寫入之前完成；之後的利息入帳、餘額讀取與交易附加
// 全部在 WithinAccount 的原子單元內執行，任一步失敗全部回滾
func (c *CoreUseCase) post(ctx context.Context, actor *domain.User, accountID int64, kind domain.TransactionKind, amount domain.Cents) (*domain.Transaction, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	account, err := c.directory.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, account) {
		return nil, domain.ErrUnauthorized
	}

	var tran *domain.Transaction
	err = c.store.WithinAccount(ctx, accountID, func(ctx context.Context, tx Tx) error {
		// 先把應計利息入帳，讓接下來讀到的餘額已含利息
		if _, err := c.accrue(ctx, tx, account, c.clock.Now()); err != nil {
			return err
		}

		balance, err := tx.Balance(ctx, accountID)
		if err != nil {
			return err
		}
		if kind == domain.TransactionKindWithdrawal && amount > balance {
			return domain.ErrInsufficientFunds
		}

		tran, err = tx.Append(ctx, accountID, kind, amount, balance, c.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("transaction committed",
		zap.Int64("account_id", accountID),
		zap.String("kind", kind.String()),
		zap.Int64("amount", int64(tran.Amount)),
		zap.Int64("balance", int64(tran.Balance)),
		zap.Uint64("sequence", tran.Sequence),
	)
	return tran, nil
}

package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sporto/kic/internal/app/core/domain"
)

// CreateRequest 建立交易申請 (Pending)
// 只接受存款與提款兩種類型；利息一律由系統入帳，不可申請
func (c *CoreUseCase) CreateRequest(ctx context.Context, actor *domain.User, accountID int64, kind domain.TransactionKind, amount domain.Cents) (*domain.TransactionRequest, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if kind != domain.TransactionKindDeposit && kind != domain.TransactionKindWithdrawal {
		return nil, domain.ErrInvalidKind
	}

	account, err := c.directory.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(actor, account) {
		return nil, domain.ErrUnauthorized
	}

	req := &domain.TransactionRequest{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount,
		Kind:      kind,
		State:     domain.RequestStatePending,
		CreatedAt: c.clock.Now(),
	}
	if err := c.store.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	c.logger.Info("transaction request created",
		zap.String("request_id", req.ID.String()),
		zap.Int64("account_id", accountID),
		zap.String("kind", kind.String()),
		zap.Int64("amount", int64(amount)),
	)
	return req, nil
}

// ApproveRequest 核准交易申請並執行底層的存提款
//
// 狀態轉移與帳本寫入在同一個工作單元內: 先以狀態防護把 Pending 轉為
// Approved，再做利息入帳、餘額檢查與交易附加。底層操作失敗 (例如餘額
// 不足) 時整個單元回滾，申請停留在 Pending，錯誤原樣上拋
func (c *CoreUseCase) ApproveRequest(ctx context.Context, requestID uuid.UUID, approver *domain.User) (*domain.Transaction, error) {
	req, err := c.store.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.State != domain.RequestStatePending {
		return nil, domain.ErrInvalidState
	}

	account, err := c.directory.Account(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(approver, account) {
		return nil, domain.ErrUnauthorized
	}

	var tran *domain.Transaction
	err = c.store.WithinAccount(ctx, req.AccountID, func(ctx context.Context, tx Tx) error {
		// 狀態防護: 另一個核准/駁回搶先時這裡回傳 ErrInvalidState
		if err := tx.TransitionRequest(ctx, req.ID, domain.RequestStatePending, domain.RequestStateApproved); err != nil {
			return err
		}

		if _, err := c.accrue(ctx, tx, account, c.clock.Now()); err != nil {
			return err
		}

		balance, err := tx.Balance(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if req.Kind == domain.TransactionKindWithdrawal && req.Amount > balance {
			return domain.ErrInsufficientFunds
		}

		tran, err = tx.Append(ctx, req.AccountID, req.Kind, req.Amount, balance, c.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("transaction request approved",
		zap.String("request_id", req.ID.String()),
		zap.Int64("account_id", req.AccountID),
		zap.Uint64("sequence", tran.Sequence),
	)
	c.dispatch(domain.Event{
		Kind:          domain.EventRequestApproved,
		AccountID:     req.AccountID,
		TransactionID: tran.TransactionID,
		RequestID:     req.ID,
		Amount:        tran.Amount,
		Balance:       tran.Balance,
		OccurredAt:    tran.CreatedAt,
	})
	return tran, nil
}

// RejectRequest 駁回交易申請，不碰帳本
func (c *CoreUseCase) RejectRequest(ctx context.Context, requestID uuid.UUID, approver *domain.User) (*domain.TransactionRequest, error) {
	req, err := c.store.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.State != domain.RequestStatePending {
		return nil, domain.ErrInvalidState
	}

	account, err := c.directory.Account(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !CanAccess(approver, account) {
		return nil, domain.ErrUnauthorized
	}

	if err := c.store.TransitionRequest(ctx, req.ID, domain.RequestStatePending, domain.RequestStateRejected); err != nil {
		return nil, err
	}
	req.State = domain.RequestStateRejected

	c.logger.Info("transaction request rejected",
		zap.String("request_id", req.ID.String()),
		zap.Int64("account_id", req.AccountID),
	)
	c.dispatch(domain.Event{
		Kind:       domain.EventRequestRejected,
		AccountID:  req.AccountID,
		RequestID:  req.ID,
		Amount:     req.Amount,
		OccurredAt: c.clock.Now(),
	})
	return req, nil
}

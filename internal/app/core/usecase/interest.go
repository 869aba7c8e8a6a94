package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sporto/kic/internal/app/core/domain"
)

const daysPerYear = 365

// accrue 懶式利息入帳，必須在存提款讀取餘額之前、同一個工作單元內完成
//
// 計息視窗為基準點 (最新交易時間，無交易時為帳戶建立時間) 到 asOf 之間的
// 完整天數。視窗為零或算出的利息為零時不寫入任何交易，因此同一時刻
// 重複呼叫至多只會產生一筆非零的利息交易 (冪等)
//
// 回傳:
//
//	*domain.Transaction: 入帳的利息交易，無利息時為 nil
//	error: 寫入錯誤
func (c *CoreUseCase) accrue(ctx context.Context, tx Ledger, account *domain.Account, asOf time.Time) (*domain.Transaction, error) {
	latest, err := tx.LatestTransaction(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	baseline := account.CreatedAt
	balance := domain.Cents(0)
	if latest != nil {
		baseline = latest.CreatedAt
		balance = latest.Balance
	}
	if balance <= 0 {
		return nil, nil
	}

	days := wholeDays(baseline, asOf)
	if days <= 0 {
		return nil, nil
	}

	interest := interestCents(balance, c.annualRate, days)
	if interest <= 0 {
		return nil, nil
	}

	return tx.Append(ctx, account.ID, domain.TransactionKindInterest, interest, balance, asOf)
}

// wholeDays 回傳 from 到 to 之間經過的完整天數，to 在 from 之前時為 0
func wholeDays(from, to time.Time) int64 {
	if !to.After(from) {
		return 0
	}
	return int64(to.Sub(from) / (24 * time.Hour))
}

// interestCents 計算利息: floor(balance * annualRate * days / 365)
// 以 decimal 運算避免浮點誤差，結果無條件捨去到分
func interestCents(balance domain.Cents, annualRate decimal.Decimal, days int64) domain.Cents {
	amount := decimal.NewFromInt(int64(balance)).
		Mul(annualRate).
		Mul(decimal.NewFromInt(days)).
		Div(decimal.NewFromInt(daysPerYear))
	return domain.Cents(amount.Floor().IntPart())
}

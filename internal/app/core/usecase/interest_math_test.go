package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sporto/kic/internal/app/core/domain"
)

func TestWholeDays(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(0), wholeDays(base, base))
	assert.Equal(t, int64(0), wholeDays(base, base.Add(23*time.Hour)))
	assert.Equal(t, int64(1), wholeDays(base, base.Add(24*time.Hour)))
	// 不足一天的部分捨去
	assert.Equal(t, int64(1), wholeDays(base, base.Add(47*time.Hour)))
	assert.Equal(t, int64(73), wholeDays(base, base.AddDate(0, 0, 73)))
	// to 在 from 之前視為零視窗
	assert.Equal(t, int64(0), wholeDays(base, base.Add(-time.Hour)))
}

func TestInterestCents(t *testing.T) {
	rate := decimal.RequireFromString("0.05")

	// 10000 * 0.05 * 73 / 365 = 100
	assert.Equal(t, domain.Cents(100), interestCents(10000, rate, 73))
	// 一天: floor(10000 * 0.05 / 365) = floor(1.369...) = 1
	assert.Equal(t, domain.Cents(1), interestCents(10000, rate, 1))
	// 太小的餘額算不出一分錢
	assert.Equal(t, domain.Cents(0), interestCents(100, rate, 1))
	// 零利率
	assert.Equal(t, domain.Cents(0), interestCents(10000, decimal.Zero, 30))
}

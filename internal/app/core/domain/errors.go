package domain

import "errors"

// 領域錯誤集中定義於此
// 呼叫端以 errors.Is 判斷類別，傳輸層再轉換成各自的狀態碼
var (
	// ErrInvalidAmount 金額必須為正數
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnauthorized 授權閘門拒絕此操作
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrRequestNotFound 找不到交易申請
	ErrRequestNotFound = errors.New("transaction request not found")

	// ErrUserNotFound 找不到使用者
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidState 交易申請已不在 Pending 狀態
	ErrInvalidState = errors.New("transaction request is not pending")

	// ErrInvalidKind 不支援的交易類型
	ErrInvalidKind = errors.New("invalid transaction kind")

	// ErrConcurrencyConflict 樂觀檢查失敗，前置餘額已被其他交易改寫
	// 呼叫端可重試整個操作
	ErrConcurrencyConflict = errors.New("concurrent update detected")

	// ErrAmountOverflow 金額運算溢位
	ErrAmountOverflow = errors.New("amount overflow")

	// ErrInternal 底層儲存錯誤或逾時，整個工作單元已回滾
	ErrInternal = errors.New("internal error")
)

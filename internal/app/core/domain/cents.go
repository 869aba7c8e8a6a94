package domain

// Cents 金額型別，以最小貨幣單位 (分) 的整數表示
// 不使用浮點數，所有運算皆為 int64 整數運算
type Cents int64

// Add 加法，溢位時回傳 ErrAmountOverflow 而非默默繞回
func (c Cents) Add(other Cents) (Cents, error) {
	sum := c + other
	if (other > 0 && sum < c) || (other < 0 && sum > c) {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// Sub 減法，同樣做溢位檢查
func (c Cents) Sub(other Cents) (Cents, error) {
	diff := c - other
	if (other > 0 && diff > c) || (other < 0 && diff < c) {
		return 0, ErrAmountOverflow
	}
	return diff, nil
}

package domain

// Role 使用者角色，封閉集合，使用 uint8 列舉
type Role uint8

const (
	// 管理員：可操作同一租戶內的所有帳戶
	RoleAdmin Role = 1
	// 投資人：只能操作自己名下的帳戶
	RoleInvestor Role = 2
)

// User 使用者，本核心只取用授權判斷所需的欄位
// ClientID 為租戶 (client) 邊界，使用者與帳戶都隸屬於唯一一個租戶
type User struct {
	ID       int64
	ClientID int64
	Role     Role
}

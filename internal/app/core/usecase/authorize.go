package usecase

import "github.com/sporto/kic/internal/app/core/domain"

// CanAccess 能力閘門: 依 {角色, 租戶, 帳戶持有權} 判斷 actor 可否操作帳戶
//
// 規則:
//   - 投資人只能操作自己名下的帳戶
//   - 管理員可操作同租戶 (ClientID 相同) 內的任何帳戶，跨租戶一律拒絕
//
// 合法但未授權時回傳 false，不回傳 error；帳戶不存在由呼叫端以
// ErrAccountNotFound 處理，不屬於本閘門的責任
func CanAccess(actor *domain.User, account *domain.Account) bool {
	if actor == nil || account == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return actor.ClientID == account.ClientID
	case domain.RoleInvestor:
		return actor.ID == account.UserID
	default:
		return false
	}
}

package memory

import (
	"context"
	"sync"

	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
)

// Directory 記憶體實作的使用者/帳戶目錄，開發模式由設定檔種子資料填入
type Directory struct {
	mu       sync.RWMutex
	users    map[int64]domain.User
	accounts map[int64]domain.Account
}

func NewDirectory(users []domain.User, accounts []domain.Account) *Directory {
	d := &Directory{
		users:    make(map[int64]domain.User),
		accounts: make(map[int64]domain.Account),
	}
	for _, u := range users {
		d.users[u.ID] = u
	}
	for _, a := range accounts {
		d.accounts[a.ID] = a
	}
	return d
}

// Account 查帳戶並帶出持有人的租戶
// 帳戶或持有人不存在都視為帳戶不存在
func (d *Directory) Account(ctx context.Context, accountID int64) (*domain.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	account, ok := d.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	owner, ok := d.users[account.UserID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	account.ClientID = owner.ClientID
	return &account, nil
}

func (d *Directory) User(ctx context.Context, userID int64) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

var _ usecase.Directory = (*Directory)(nil)

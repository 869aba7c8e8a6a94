package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
	"github.com/sporto/kic/pkg/mysql"
)

// Directory 使用者/帳戶唯讀目錄 (MySQL)
type Directory struct {
	client *mysql.Client
}

func NewDirectory(client *mysql.Client) *Directory {
	return &Directory{
		client: client,
	}
}

// Account 查帳戶並帶出持有人的租戶
// 持有人不存在時同樣視為帳戶不存在 (資料不完整不該外漏成授權判斷)
func (d *Directory) Account(ctx context.Context, accountID int64) (*domain.Account, error) {
	var account sqlAccount
	err := d.client.DB().WithContext(ctx).First(&account, "id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, wrapInternal(err)
	}

	var owner sqlUser
	err = d.client.DB().WithContext(ctx).First(&owner, "id = ?", account.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, wrapInternal(err)
	}

	return &domain.Account{
		ID:        account.ID,
		UserID:    account.UserID,
		ClientID:  owner.ClientID,
		CreatedAt: account.CreatedAt,
	}, nil
}

func (d *Directory) User(ctx context.Context, userID int64) (*domain.User, error) {
	var user sqlUser
	err := d.client.DB().WithContext(ctx).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrapInternal(err)
	}
	return &domain.User{
		ID:       user.ID,
		ClientID: user.ClientID,
		Role:     domain.Role(user.Role),
	}, nil
}

var _ usecase.Directory = (*Directory)(nil)

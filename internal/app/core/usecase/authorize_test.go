package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sporto/kic/internal/app/core/domain"
)

// 授權矩陣: 投資人僅限本人帳戶，管理員僅限同租戶
func TestCanAccess(t *testing.T) {
	account := &domain.Account{ID: 10, UserID: 2, ClientID: 1}

	cases := []struct {
		name  string
		actor *domain.User
		want  bool
	}{
		{"owner investor", &domain.User{ID: 2, ClientID: 1, Role: domain.RoleInvestor}, true},
		{"other investor same tenant", &domain.User{ID: 3, ClientID: 1, Role: domain.RoleInvestor}, false},
		{"admin same tenant", &domain.User{ID: 1, ClientID: 1, Role: domain.RoleAdmin}, true},
		{"admin other tenant", &domain.User{ID: 4, ClientID: 2, Role: domain.RoleAdmin}, false},
		{"investor other tenant", &domain.User{ID: 5, ClientID: 2, Role: domain.RoleInvestor}, false},
		{"unknown role", &domain.User{ID: 9, ClientID: 1, Role: domain.Role(99)}, false},
		{"nil actor", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanAccess(tc.actor, account))
		})
	}

	// 帳戶為 nil 一律拒絕
	assert.False(t, CanAccess(&domain.User{ID: 1, ClientID: 1, Role: domain.RoleAdmin}, nil))
}

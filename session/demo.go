package session

import (
	"crypto/subtle"
	"strings"

	"expensetracker/config"

	"golang.org/x/crypto/bcrypt"
)

// FallbackIdentity 兜底账号表命中后返回的身份信息
type FallbackIdentity struct {
	Email string
	Name  string
}

// FallbackTable 兜底凭据表能力接口
// 可按部署替换或禁用（传 nil），不影响 Manager 的控制流
type FallbackTable interface {
	Lookup(email, password string) (FallbackIdentity, bool)
}

// DefaultDemoUsers 内置演示账号
// 仅用于远程身份服务不可用时的演示场景
func DefaultDemoUsers() []config.DemoUser {
	return []config.DemoUser{
		{Email: "user@example.com", Password: "password123", Name: "Demo User"},
		{Email: "test@example.com", Password: "test123", Name: "Test Account"},
		{Email: "admin@example.com", Password: "admin123", Name: "Admin User"},
	}
}

// CredentialTable 静态兜底凭据表
type CredentialTable struct {
	users []config.DemoUser
}

// NewCredentialTable 创建兜底凭据表，users 为空时使用内置演示账号
func NewCredentialTable(users []config.DemoUser) *CredentialTable {
	if len(users) == 0 {
		users = DefaultDemoUsers()
	}
	return &CredentialTable{users: users}
}

// Lookup 按邮箱（不区分大小写）和密码查找账号
// 密码支持 bcrypt 哈希（$2 开头）或明文两种存储形式
func (t *CredentialTable) Lookup(email, password string) (FallbackIdentity, bool) {
	for _, u := range t.users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if matchPassword(u.Password, password) {
			return FallbackIdentity{Email: u.Email, Name: u.Name}, true
		}
	}
	return FallbackIdentity{}, false
}

func matchPassword(stored, given string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

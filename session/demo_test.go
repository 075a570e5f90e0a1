package session

import (
	"testing"

	"expensetracker/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialTableLookup(t *testing.T) {
	table := NewCredentialTable(nil)

	identity, ok := table.Lookup("user@example.com", "password123")
	require.True(t, ok)
	assert.Equal(t, "user@example.com", identity.Email)
	assert.Equal(t, "Demo User", identity.Name)

	// 邮箱不区分大小写
	identity, ok = table.Lookup("USER@Example.COM", "password123")
	require.True(t, ok)
	assert.Equal(t, "user@example.com", identity.Email)

	// 密码错误
	_, ok = table.Lookup("user@example.com", "wrong")
	assert.False(t, ok)

	// 账号不存在
	_, ok = table.Lookup("nobody@example.com", "password123")
	assert.False(t, ok)
}

func TestCredentialTableCustomUsers(t *testing.T) {
	table := NewCredentialTable([]config.DemoUser{
		{Email: "ops@corp.com", Password: "s3cret", Name: "Ops"},
	})

	_, ok := table.Lookup("user@example.com", "password123")
	assert.False(t, ok, "自定义账号表不包含内置演示账号")

	identity, ok := table.Lookup("ops@corp.com", "s3cret")
	require.True(t, ok)
	assert.Equal(t, "Ops", identity.Name)
}

func TestCredentialTableBcryptEntry(t *testing.T) {
	// $2 开头按 bcrypt 哈希比对，不匹配的明文不能通过
	table := NewCredentialTable([]config.DemoUser{
		{Email: "hashed@corp.com", Password: "$2a$10$invalidhashinvalidhashinvalidhashinvalidhashinvalid", Name: "Hashed"},
	})

	_, ok := table.Lookup("hashed@corp.com", "whatever")
	assert.False(t, ok)
	_, ok = table.Lookup("hashed@corp.com", "$2a$10$invalidhashinvalidhashinvalidhashinvalidhashinvalid")
	assert.False(t, ok, "哈希条目不允许按明文比对通过")
}

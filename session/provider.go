package session

import (
	"context"
	"errors"
)

// Identity 远程身份服务返回的用户身份
type Identity struct {
	ID    string
	Email string
	Name  string
}

// EventType 认证状态变更事件类型
type EventType string

const (
	// EventSignedIn 远程服务报告用户已登录
	EventSignedIn EventType = "signed_in"
	// EventSignedOut 远程服务报告用户已退出
	EventSignedOut EventType = "signed_out"
)

// Event 认证状态变更事件，按远程服务产生的顺序投递
type Event struct {
	Type     EventType
	Identity *Identity
}

var (
	// ErrProviderUnavailable 远程身份服务不可达或返回异常
	// 该错误永远不直接暴露给用户，只触发本地兜底逻辑
	ErrProviderUnavailable = errors.New("远程身份服务不可用")
	// ErrInvalidCredentials 远程身份服务拒绝了凭据
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// Provider 远程身份服务能力接口
// 只消费这组能力，不依赖任何具体厂商的协议细节
type Provider interface {
	// SignInWithPassword 密码登录，凭据被拒绝返回 ErrInvalidCredentials
	SignInWithPassword(ctx context.Context, email, password string) (*Identity, error)
	// SignUp 注册新用户，name 作为元数据一并提交
	SignUp(ctx context.Context, email, password, name string) (*Identity, error)
	// SignOut 通知远程服务退出登录
	SignOut(ctx context.Context) error
	// CurrentSession 查询现有会话，无会话时返回 (nil, nil)
	CurrentSession(ctx context.Context) (*Identity, error)
	// Subscribe 订阅认证状态变更，返回取消订阅函数
	Subscribe(fn func(Event)) (unsubscribe func())
}

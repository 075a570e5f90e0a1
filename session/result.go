package session

import (
	"expensetracker/models"
)

// State 会话状态
type State int

const (
	// StateLoading 初始化中，尚未确定登录状态
	StateLoading State = iota
	// StateAnonymous 匿名
	StateAnonymous
	// StateAuthenticated 已认证
	StateAuthenticated
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ErrorKind 认证失败分类
type ErrorKind string

const (
	// KindCredentialError 远程和兜底路径都拒绝了凭据
	KindCredentialError ErrorKind = "credential_error"
	// KindProviderUnavailable 远程服务不可用（内部分类，不单独暴露给用户）
	KindProviderUnavailable ErrorKind = "provider_unavailable"
)

// Result 认证操作的带标签结果
// 调用方根据 OK/Kind 分支，不需要检查错误的具体形态
type Result struct {
	OK      bool
	Session models.Session
	Kind    ErrorKind
	Message string
}

func okResult(s models.Session) Result {
	return Result{OK: true, Session: s}
}

func failResult(kind ErrorKind, message string) Result {
	return Result{OK: false, Kind: kind, Message: message}
}

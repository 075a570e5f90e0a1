package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"expensetracker/models"

	"github.com/google/uuid"
)

// Manager 会话管理器
// 状态机: Loading -> {Anonymous, Authenticated}，Authenticated -> Anonymous（退出）
// 显式构造、显式注入到需要它的组件，生命周期由 Init/Teardown 界定
type Manager struct {
	mu      sync.RWMutex
	state   State
	session *models.Session

	provider  Provider // 可为 nil，视为远程服务不可用
	fallback  FallbackTable
	ephemeral EphemeralStorage
	timeout   time.Duration

	unsubscribe func()
}

// NewManager 创建会话管理器，初始状态为 Loading
// provider 为 nil 时所有远程调用直接走兜底逻辑
func NewManager(provider Provider, fallback FallbackTable, ephemeral EphemeralStorage, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Manager{
		state:     StateLoading,
		provider:  provider,
		fallback:  fallback,
		ephemeral: ephemeral,
		timeout:   timeout,
	}
}

// Init 初始化会话
// 1) 同步检查临时存储中的合成会话并立即采用
// 2) 异步查询远程现有会话，远程会话为准（可能覆盖本地采用的会话）
// 3) 订阅远程认证状态变更，直到 Teardown
func (m *Manager) Init(ctx context.Context) {
	// 1. 同步恢复本地合成会话
	if m.ephemeral != nil {
		if s, ok := m.ephemeral.Load(); ok {
			m.adopt(s)
			log.Printf("已从临时存储恢复会话: %s", s.Email)
		}
	}

	if m.provider == nil {
		// 无远程服务可查，直接结束 Loading
		m.settle()
		return
	}

	// 2. 异步查询远程会话
	go func() {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		identity, err := m.provider.CurrentSession(cctx)
		if err != nil {
			log.Printf("查询远程会话失败: %v", err)
			m.settle()
			return
		}
		if identity != nil {
			// 远程会话为准，覆盖本地采用的会话
			m.adopt(identityToSession(identity))
			log.Printf("已采用远程会话: %s", identity.Email)
			return
		}
		m.settle()
	}()

	// 3. 订阅状态变更
	m.unsubscribe = m.provider.Subscribe(m.handleEvent)
}

// Teardown 释放对远程服务的订阅，避免在过期注册上继续响应事件
func (m *Manager) Teardown() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// State 当前状态
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current 当前会话，匿名状态返回 (zero, false)
func (m *Manager) Current() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return models.Session{}, false
	}
	return *m.session, true
}

// SignIn 密码登录
// 先尝试远程身份服务；远程拒绝或不可用时回落到兜底凭据表；
// 两条路径都失败返回 CredentialError，状态保持 Anonymous
func (m *Manager) SignIn(ctx context.Context, email, password string) Result {
	if m.provider != nil {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		identity, err := m.provider.SignInWithPassword(cctx, email, password)
		if err == nil && identity != nil {
			s := identityToSession(identity)
			m.adopt(s)
			return okResult(s)
		}
		// 拒绝和不可用都静默回落，不向用户暴露远程错误
		log.Printf("远程登录失败，尝试兜底账号: %v", err)
	}
	return m.fallbackSignIn(email, password)
}

// fallbackSignIn 兜底凭据表登录，命中时合成本地身份并保存到临时存储
func (m *Manager) fallbackSignIn(email, password string) Result {
	if m.fallback == nil {
		m.settle()
		return failResult(KindCredentialError, "邮箱或密码错误")
	}

	identity, ok := m.fallback.Lookup(email, password)
	if !ok {
		m.settle()
		return failResult(KindCredentialError, "邮箱或密码错误")
	}

	// 本地合成身份，ID 来自当前时间而不是远程服务
	s := models.Session{
		UserID:      fmt.Sprintf("demo-%d", time.Now().UnixMilli()),
		Email:       identity.Email,
		DisplayName: identity.Name,
	}
	m.saveEphemeral(s)
	m.adopt(s)
	return okResult(s)
}

// SignUp 注册
// 远程注册失败（包括服务不可用）时直接合成本地身份，对调用方永远报告成功；
// 邮箱验证等细节属于远程服务内部流程，不作为独立状态暴露
func (m *Manager) SignUp(ctx context.Context, email, password, name string) Result {
	if m.provider != nil {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		identity, err := m.provider.SignUp(cctx, email, password, name)
		if err == nil && identity != nil {
			s := identityToSession(identity)
			if s.DisplayName == "" {
				s.DisplayName = name
			}
			m.adopt(s)
			return okResult(s)
		}
		log.Printf("远程注册失败，合成本地账号: %v", err)
	}

	s := models.Session{
		UserID:      fmt.Sprintf("demo-signup-%d", time.Now().UnixMilli()),
		Email:       email,
		DisplayName: name,
	}
	m.saveEphemeral(s)
	m.adopt(s)
	return okResult(s)
}

// SignOut 退出登录
// 先清除本地临时存储，再尽力通知远程服务；
// 无论远程调用是否成功，状态无条件转为 Anonymous
func (m *Manager) SignOut(ctx context.Context) {
	if m.ephemeral != nil {
		m.ephemeral.Clear()
	}

	if m.provider != nil {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()
		if err := m.provider.SignOut(cctx); err != nil {
			// 本地状态变更是权威的，远程失败只记日志
			log.Printf("通知远程服务退出失败（忽略）: %v", err)
		}
	}

	m.mu.Lock()
	m.state = StateAnonymous
	m.session = nil
	m.mu.Unlock()
}

// DevModeSignIn 开发模式一键登录，运维/测试用的逃生通道
// 不在正常登录失败路径上，必须显式开启配置才可达
func (m *Manager) DevModeSignIn() Result {
	s := models.Session{
		UserID:      "dev-user-" + uuid.NewString()[:8],
		Email:       "dev@example.com",
		DisplayName: "Development User",
	}
	m.saveEphemeral(s)
	m.adopt(s)
	return okResult(s)
}

// handleEvent 镜像远程服务报告的状态变更
func (m *Manager) handleEvent(ev Event) {
	switch ev.Type {
	case EventSignedIn:
		if ev.Identity != nil {
			m.adopt(identityToSession(ev.Identity))
		}
	case EventSignedOut:
		// 远程报告退出时同步清除本地合成会话
		if m.ephemeral != nil {
			m.ephemeral.Clear()
		}
		m.mu.Lock()
		m.state = StateAnonymous
		m.session = nil
		m.mu.Unlock()
	}
}

// adopt 采用给定会话并转为 Authenticated
func (m *Manager) adopt(s models.Session) {
	m.mu.Lock()
	m.state = StateAuthenticated
	m.session = &s
	m.mu.Unlock()
}

// settle 结束 Loading 状态；已认证的会话不受影响
func (m *Manager) settle() {
	m.mu.Lock()
	if m.state == StateLoading {
		m.state = StateAnonymous
	}
	m.mu.Unlock()
}

func (m *Manager) saveEphemeral(s models.Session) {
	if m.ephemeral != nil {
		m.ephemeral.Save(s)
	}
}

func identityToSession(identity *Identity) models.Session {
	return models.Session{
		UserID:      identity.ID,
		Email:       identity.Email,
		DisplayName: identity.Name,
	}
}

package session

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"expensetracker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider 可编排的远程身份服务假实现
type fakeProvider struct {
	mu sync.Mutex

	signInIdentity *Identity
	signInErr      error
	signUpIdentity *Identity
	signUpErr      error
	signOutErr     error
	signOutCalls   int
	current        *Identity
	currentErr     error

	subs []func(Event)
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*Identity, error) {
	return f.signInIdentity, f.signInErr
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, name string) (*Identity, error) {
	return f.signUpIdentity, f.signUpErr
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signOutCalls++
	f.mu.Unlock()
	return f.signOutErr
}

func (f *fakeProvider) CurrentSession(ctx context.Context) (*Identity, error) {
	return f.current, f.currentErr
}

func (f *fakeProvider) Subscribe(fn func(Event)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, fn)
	idx := len(f.subs) - 1
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subs[idx] = nil
	}
}

func (f *fakeProvider) emit(ev Event) {
	f.mu.Lock()
	subs := append([]func(Event){}, f.subs...)
	f.mu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(ev)
		}
	}
}

// memStorage 内存临时会话存储假实现
type memStorage struct {
	mu sync.Mutex
	s  *models.Session
}

func (m *memStorage) Load() (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return models.Session{}, false
	}
	return *m.s, true
}

func (m *memStorage) Save(s models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
}

func (m *memStorage) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
}

func newTestManager(p Provider) (*Manager, *memStorage) {
	eph := &memStorage{}
	return NewManager(p, NewCredentialTable(nil), eph, time.Second), eph
}

func TestSignInRemoteSuccess(t *testing.T) {
	p := &fakeProvider{signInIdentity: &Identity{ID: "remote-1", Email: "a@b.com", Name: "Alice"}}
	m, eph := newTestManager(p)

	result := m.SignIn(context.Background(), "a@b.com", "secret")
	require.True(t, result.OK)
	assert.Equal(t, "remote-1", result.Session.UserID)
	assert.Equal(t, StateAuthenticated, m.State())

	// 远程会话不写入临时存储
	_, ok := eph.Load()
	assert.False(t, ok)
}

func TestSignInFallbackWhenProviderUnavailable(t *testing.T) {
	p := &fakeProvider{signInErr: ErrProviderUnavailable}
	m, eph := newTestManager(p)

	result := m.SignIn(context.Background(), "user@example.com", "password123")
	require.True(t, result.OK)
	assert.Equal(t, "user@example.com", result.Session.Email)
	assert.Equal(t, "Demo User", result.Session.DisplayName)
	assert.True(t, strings.HasPrefix(result.Session.UserID, "demo-"))
	assert.Equal(t, StateAuthenticated, m.State())

	// 合成会话已保存到临时存储
	saved, ok := eph.Load()
	require.True(t, ok)
	assert.Equal(t, result.Session, saved)
}

func TestSignInFallbackWhenCredentialsRejected(t *testing.T) {
	// 远程拒绝凭据同样触发兜底路径
	p := &fakeProvider{signInErr: ErrInvalidCredentials}
	m, _ := newTestManager(p)

	result := m.SignIn(context.Background(), "test@example.com", "test123")
	require.True(t, result.OK)
	assert.Equal(t, "Test Account", result.Session.DisplayName)
}

func TestSignInBothPathsReject(t *testing.T) {
	p := &fakeProvider{signInErr: ErrInvalidCredentials}
	m, _ := newTestManager(p)

	result := m.SignIn(context.Background(), "nope@x.com", "wrong")
	require.False(t, result.OK)
	assert.Equal(t, KindCredentialError, result.Kind)
	assert.Equal(t, StateAnonymous, m.State())

	_, ok := m.Current()
	assert.False(t, ok)
}

func TestSignInNilProviderUsesFallback(t *testing.T) {
	m, _ := newTestManager(nil)

	result := m.SignIn(context.Background(), "user@example.com", "password123")
	require.True(t, result.OK)
	assert.Equal(t, "user@example.com", result.Session.Email)
}

func TestSignInFallbackDisabled(t *testing.T) {
	eph := &memStorage{}
	m := NewManager(nil, nil, eph, time.Second)

	result := m.SignIn(context.Background(), "user@example.com", "password123")
	require.False(t, result.OK)
	assert.Equal(t, KindCredentialError, result.Kind)
}

func TestSignUpRemoteSuccess(t *testing.T) {
	p := &fakeProvider{signUpIdentity: &Identity{ID: "remote-2", Email: "new@b.com"}}
	m, _ := newTestManager(p)

	result := m.SignUp(context.Background(), "new@b.com", "secret123", "Newbie")
	require.True(t, result.OK)
	assert.Equal(t, "remote-2", result.Session.UserID)
	// 远程未返回昵称时沿用注册时提交的
	assert.Equal(t, "Newbie", result.Session.DisplayName)
}

func TestSignUpFallsBackToLocalIdentity(t *testing.T) {
	// 注册对调用方永远成功，远程失败时合成本地身份
	p := &fakeProvider{signUpErr: ErrProviderUnavailable}
	m, eph := newTestManager(p)

	result := m.SignUp(context.Background(), "new@b.com", "secret123", "Newbie")
	require.True(t, result.OK)
	assert.True(t, strings.HasPrefix(result.Session.UserID, "demo-signup-"))
	assert.Equal(t, "new@b.com", result.Session.Email)
	assert.Equal(t, StateAuthenticated, m.State())

	saved, ok := eph.Load()
	require.True(t, ok)
	assert.Equal(t, result.Session, saved)
}

func TestSignOutAlwaysAnonymous(t *testing.T) {
	// 远程退出抛错也不影响本地状态变更
	p := &fakeProvider{signOutErr: ErrProviderUnavailable}
	m, eph := newTestManager(p)
	m.DevModeSignIn()
	require.Equal(t, StateAuthenticated, m.State())

	m.SignOut(context.Background())
	assert.Equal(t, StateAnonymous, m.State())

	_, ok := eph.Load()
	assert.False(t, ok, "临时存储必须被清除")
	assert.Equal(t, 1, p.signOutCalls)
}

func TestDevModeSignIn(t *testing.T) {
	m, eph := newTestManager(nil)

	result := m.DevModeSignIn()
	require.True(t, result.OK)
	assert.True(t, strings.HasPrefix(result.Session.UserID, "dev-user-"))
	assert.Equal(t, "dev@example.com", result.Session.Email)
	assert.Equal(t, "Development User", result.Session.DisplayName)
	assert.Equal(t, StateAuthenticated, m.State())

	_, ok := eph.Load()
	assert.True(t, ok)
}

func TestInitAdoptsEphemeralSessionSynchronously(t *testing.T) {
	eph := &memStorage{}
	eph.Save(models.Session{UserID: "demo-1", Email: "user@example.com", DisplayName: "Demo User"})
	m := NewManager(nil, NewCredentialTable(nil), eph, time.Second)

	m.Init(context.Background())
	// 无需等待，同步采用
	assert.Equal(t, StateAuthenticated, m.State())
	s, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "demo-1", s.UserID)
}

func TestInitRemoteSessionIsAuthoritative(t *testing.T) {
	eph := &memStorage{}
	eph.Save(models.Session{UserID: "demo-1", Email: "user@example.com"})
	p := &fakeProvider{current: &Identity{ID: "remote-9", Email: "real@b.com", Name: "Real"}}
	m := NewManager(p, NewCredentialTable(nil), eph, time.Second)
	defer m.Teardown()

	m.Init(context.Background())
	require.Eventually(t, func() bool {
		s, ok := m.Current()
		return ok && s.UserID == "remote-9"
	}, time.Second, 10*time.Millisecond, "远程会话应覆盖本地会话")
}

func TestInitAnonymousWhenBothChecksFail(t *testing.T) {
	p := &fakeProvider{currentErr: ErrProviderUnavailable}
	m, _ := newTestManager(p)
	defer m.Teardown()

	m.Init(context.Background())
	require.Eventually(t, func() bool {
		return m.State() == StateAnonymous
	}, time.Second, 10*time.Millisecond)
}

func TestProviderEventsAreMirrored(t *testing.T) {
	p := &fakeProvider{}
	m, eph := newTestManager(p)
	defer m.Teardown()
	m.Init(context.Background())

	p.emit(Event{Type: EventSignedIn, Identity: &Identity{ID: "remote-3", Email: "x@b.com"}})
	require.Eventually(t, func() bool {
		s, ok := m.Current()
		return ok && s.UserID == "remote-3"
	}, time.Second, 10*time.Millisecond)

	eph.Save(models.Session{UserID: "demo-2"})
	p.emit(Event{Type: EventSignedOut})
	assert.Equal(t, StateAnonymous, m.State())
	_, ok := eph.Load()
	assert.False(t, ok, "远程报告退出时必须清除临时存储")
}

func TestTeardownReleasesSubscription(t *testing.T) {
	p := &fakeProvider{}
	m, _ := newTestManager(p)
	m.Init(context.Background())
	m.DevModeSignIn()

	m.Teardown()
	p.emit(Event{Type: EventSignedOut})
	// 订阅已释放，过期注册不再生效
	assert.Equal(t, StateAuthenticated, m.State())
}

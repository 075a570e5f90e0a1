package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"expensetracker/session"
)

// AuthProvider 远程身份服务的 HTTP 客户端（GoTrue 风格 REST 接口）
// 实现 session.Provider，只使用约定的能力集合，不依赖厂商私有格式
type AuthProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu          sync.Mutex
	accessToken string

	// 订阅者按注册顺序收到同一事件，事件由单个分发协程串行投递
	subMu  sync.Mutex
	nextID int
	subs   map[int]func(session.Event)
	events chan session.Event
	done   chan struct{}

	pollInterval time.Duration
	pollStop     chan struct{}
	pollLast     *session.Identity
}

// NewAuthProvider 创建远程身份服务客户端
// pollInterval 是认证状态轮询间隔，<= 0 时默认 30 秒
func NewAuthProvider(baseURL, apiKey string, pollInterval time.Duration) *AuthProvider {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	p := &AuthProvider{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 30 * time.Second},
		subs:         make(map[int]func(session.Event)),
		events:       make(chan session.Event, 16),
		done:         make(chan struct{}),
		pollInterval: pollInterval,
	}
	go p.dispatch()
	return p
}

// Close 停止事件分发和轮询
func (p *AuthProvider) Close() {
	p.subMu.Lock()
	if p.pollStop != nil {
		close(p.pollStop)
		p.pollStop = nil
	}
	p.subMu.Unlock()
	close(p.done)
}

// tokenResponse 密码登录/注册响应
type tokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        *userResponse `json:"user"`
}

// userResponse 用户信息响应
type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

func (u *userResponse) identity() *session.Identity {
	return &session.Identity{ID: u.ID, Email: u.Email, Name: u.Metadata.Name}
}

// errorResponse 远程服务错误响应
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

// SignInWithPassword 密码登录
// 4xx 视为凭据被拒绝，网络错误和 5xx 视为服务不可用
func (p *AuthProvider) SignInWithPassword(ctx context.Context, email, password string) (*session.Identity, error) {
	body := map[string]string{"email": email, "password": password}
	data, err := p.post(ctx, "/token?grant_type=password", body)
	if err != nil {
		return nil, err
	}
	var resp tokenResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: 解析响应失败: %v", session.ErrProviderUnavailable, err)
	}
	if resp.User == nil || resp.User.ID == "" {
		return nil, fmt.Errorf("%w: 响应中缺少用户信息", session.ErrProviderUnavailable)
	}
	p.setToken(resp.AccessToken)
	p.emit(session.Event{Type: session.EventSignedIn, Identity: resp.User.identity()})
	return resp.User.identity(), nil
}

// SignUp 注册新用户，name 作为用户元数据提交
// 部分部署要求邮箱验证后才返回会话，这里只要拿到用户对象就算成功
func (p *AuthProvider) SignUp(ctx context.Context, email, password, name string) (*session.Identity, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     map[string]string{"name": name},
	}
	data, err := p.post(ctx, "/signup", body)
	if err != nil {
		return nil, err
	}
	var resp tokenResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: 解析响应失败: %v", session.ErrProviderUnavailable, err)
	}

	user := resp.User
	if user == nil {
		// 某些实现直接返回用户对象而不是 token 包装
		var bare userResponse
		if err := json.Unmarshal(data, &bare); err == nil && bare.ID != "" {
			user = &bare
		}
	}
	if user == nil {
		return nil, fmt.Errorf("%w: 响应中缺少用户信息", session.ErrProviderUnavailable)
	}
	if resp.AccessToken != "" {
		p.setToken(resp.AccessToken)
	}
	identity := user.identity()
	if identity.Name == "" {
		identity.Name = name
	}
	p.emit(session.Event{Type: session.EventSignedIn, Identity: identity})
	return identity, nil
}

// SignOut 通知远程服务退出并丢弃本地持有的 access token
func (p *AuthProvider) SignOut(ctx context.Context) error {
	token := p.token()
	p.setToken("")
	p.emit(session.Event{Type: session.EventSignedOut})
	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}
	p.setHeaders(req, token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: 状态码 %d", session.ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}

// CurrentSession 查询现有会话
// 无 token 或 token 已失效时返回 (nil, nil)，表示没有会话而不是出错
func (p *AuthProvider) CurrentSession(ctx context.Context) (*session.Identity, error) {
	token := p.token()
	if token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}
	p.setHeaders(req, token)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: 状态码 %d", session.ErrProviderUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}
	var user userResponse
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: 解析响应失败: %v", session.ErrProviderUnavailable, err)
	}
	if user.ID == "" {
		return nil, nil
	}
	return user.identity(), nil
}

// Subscribe 订阅认证状态变更
// 第一个订阅者注册时启动轮询，最后一个取消时停止
func (p *AuthProvider) Subscribe(fn func(session.Event)) func() {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	id := p.nextID
	p.nextID++
	p.subs[id] = fn

	if p.pollStop == nil {
		p.pollStop = make(chan struct{})
		go p.poll(p.pollStop)
	}

	return func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		delete(p.subs, id)
		if len(p.subs) == 0 && p.pollStop != nil {
			close(p.pollStop)
			p.pollStop = nil
		}
	}
}

// poll 周期性对比远程会话，将差异转成有序事件流
func (p *AuthProvider) poll(stop chan struct{}) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), p.pollInterval)
			current, err := p.CurrentSession(ctx)
			cancel()
			if err != nil {
				// 服务不可用不代表退出登录，跳过本轮
				continue
			}

			switch {
			case p.pollLast == nil && current != nil:
				p.emit(session.Event{Type: session.EventSignedIn, Identity: current})
			case p.pollLast != nil && current == nil:
				p.emit(session.Event{Type: session.EventSignedOut})
			case p.pollLast != nil && current != nil && p.pollLast.ID != current.ID:
				p.emit(session.Event{Type: session.EventSignedIn, Identity: current})
			}
			p.pollLast = current
		}
	}
}

// dispatch 单协程分发事件，保证订阅者按事件产生顺序收到通知
func (p *AuthProvider) dispatch() {
	for {
		select {
		case <-p.done:
			return
		case ev := <-p.events:
			p.subMu.Lock()
			subs := make([]func(session.Event), 0, len(p.subs))
			for _, fn := range p.subs {
				subs = append(subs, fn)
			}
			p.subMu.Unlock()
			for _, fn := range subs {
				fn(ev)
			}
		}
	}
}

func (p *AuthProvider) emit(ev session.Event) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}

// post 发送 JSON 请求，返回响应体，统一错误分类
// 4xx 映射为凭据被拒绝，网络错误和 5xx 映射为服务不可用
func (p *AuthProvider) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	p.setHeaders(req, "")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrProviderUnavailable, err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var errResp errorResponse
		_ = json.Unmarshal(data, &errResp)
		msg := errResp.ErrorDescription
		if msg == "" {
			msg = errResp.Message
		}
		if msg == "" {
			msg = errResp.Error
		}
		if msg == "" {
			msg = string(data)
		}
		return nil, fmt.Errorf("%w: %s", session.ErrInvalidCredentials, msg)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: 状态码 %d", session.ErrProviderUnavailable, resp.StatusCode)
	}

	return data, nil
}

func (p *AuthProvider) setHeaders(req *http.Request, token string) {
	if p.apiKey != "" {
		req.Header.Set("apikey", p.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (p *AuthProvider) token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accessToken
}

func (p *AuthProvider) setToken(token string) {
	p.mu.Lock()
	p.accessToken = token
	p.mu.Unlock()
}

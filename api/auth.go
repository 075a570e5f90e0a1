package api

import (
	"expensetracker/config"
	"expensetracker/middleware"
	"expensetracker/models"
	"expensetracker/session"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
// 具体的登录语义（远程优先、本地兜底）由会话管理器实现，
// 这里只负责请求绑定和签发 token
type AuthHandler struct {
	cfg     *config.Config
	manager *session.Manager
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, manager *session.Manager) *AuthHandler {
	return &AuthHandler{cfg: cfg, manager: manager}
}

// SignInRequest 登录请求
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// SignUpRequest 注册请求
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email" example:"new@example.com"`
	Password string `json:"password" binding:"required,min=6,max=50" example:"password123"`
	Name     string `json:"name" binding:"required,min=1,max=50" example:"New User"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token   string         `json:"token"`
	Session models.Session `json:"session"`
}

// SignIn 登录
// @Summary 登录
// @Description 邮箱密码登录。优先走远程身份服务，远程不可用或拒绝时回落到内置演示账号。
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body SignInRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "邮箱或密码错误"
// @Router /api/v1/auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	result := h.manager.SignIn(c.Request.Context(), req.Email, req.Password)
	if !result.OK {
		Unauthorized(c, result.Message)
		return
	}

	token, err := middleware.GenerateToken(result.Session, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{
		Token:   token,
		Session: result.Session,
	})
}

// SignUp 注册
// @Summary 注册
// @Description 注册新账号。远程身份服务不可用时在本地合成账号，注册总是成功。
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "注册信息"
// @Success 200 {object} Response{data=LoginResponse} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /api/v1/auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	result := h.manager.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if !result.OK {
		Unauthorized(c, result.Message)
		return
	}

	token, err := middleware.GenerateToken(result.Session, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	SuccessWithMessage(c, "注册成功", LoginResponse{
		Token:   token,
		Session: result.Session,
	})
}

// SignOut 退出登录
// @Summary 退出登录
// @Description 清除本地会话并尽力通知远程服务，无论远程是否成功都返回成功
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "退出成功"
// @Router /api/v1/auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.manager.SignOut(c.Request.Context())
	SuccessWithMessage(c, "已退出登录", nil)
}

// DevSignIn 开发模式一键登录
// @Summary 开发模式一键登录
// @Description 跳过密码校验直接生成开发会话，仅在 auth.dev_mode 开启时可用
// @Tags 认证
// @Accept json
// @Produce json
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 404 {object} Response "开发模式未开启"
// @Router /api/v1/auth/dev-signin [post]
func (h *AuthHandler) DevSignIn(c *gin.Context) {
	if !h.cfg.Auth.DevMode {
		// 未开启时表现得像路由不存在
		NotFound(c, "接口不存在")
		return
	}

	result := h.manager.DevModeSignIn()
	token, err := middleware.GenerateToken(result.Session, h.cfg.JWT.ExpireTime)
	if err != nil {
		InternalError(c, "生成 token 失败")
		return
	}

	Success(c, LoginResponse{
		Token:   token,
		Session: result.Session,
	})
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Description 从 token 还原当前登录用户的会话信息
// @Tags 认证
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Session} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/auth/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	Success(c, middleware.GetCurrentSession(c))
}

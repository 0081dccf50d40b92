package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/petguard/petguard_go_server/config"
	"github.com/petguard/petguard_go_server/internal/api/middleware"
	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/oauth"
	"github.com/petguard/petguard_go_server/internal/pkg/response"
	"github.com/petguard/petguard_go_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	stateStore  *oauth.StateStore
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, stateStore *oauth.StateStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		stateStore:  stateStore,
		cfg:         cfg,
	}
}

// setAuthCookies 登录成功后把 token 写进 cookie
func (h *AuthHandler) setAuthCookies(c *gin.Context, resp *dto.LoginResponse) {
	c.SetCookie(middleware.TokenCookie, resp.Token,
		h.cfg.JWT.ExpireHours*3600, "/", h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
	c.SetCookie(middleware.RefreshCookie, resp.RefreshToken,
		h.cfg.JWT.RefreshExpireHours*3600, "/", h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
}

// clearAuthCookies 登出时清除 cookie
func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", h.cfg.Cookie.Domain, h.cfg.Cookie.Secure, true)
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	h.setAuthCookies(c, resp)
	response.SuccessWithMessage(c, "注册成功", resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials),
			errors.Is(err, service.ErrUserInactive),
			errors.Is(err, service.ErrGoogleAccount):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	h.setAuthCookies(c, resp)
	response.SuccessWithMessage(c, "登录成功", resp)
}

// GoogleRegister 用 Google ID token 注册
// POST /api/v1/auth/google/register
func (h *AuthHandler) GoogleRegister(c *gin.Context) {
	var req dto.GoogleTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.GoogleRegister(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGoogleToken):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrUserInactive),
			errors.Is(err, service.ErrNotGoogleAccount):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	h.setAuthCookies(c, resp)
	response.SuccessWithMessage(c, "注册成功", resp)
}

// GoogleLogin 用 Google ID token 登录
// POST /api/v1/auth/google/login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.GoogleLogin(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGoogleToken),
			errors.Is(err, service.ErrUserInactive),
			errors.Is(err, service.ErrNotGoogleAccount):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	h.setAuthCookies(c, resp)
	response.SuccessWithMessage(c, "登录成功", resp)
}

// GoogleAuth 跳转 Google 授权页（授权码流程）
// GET /api/v1/auth/google
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	redirect := c.Query("redirect")
	state, err := h.stateStore.GenerateState(c.Request.Context(), redirect)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"url": h.authService.GetGoogleAuthURL(state)})
}

// GoogleCallback 处理 Google OAuth 回调
// GET /api/v1/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if _, err := h.stateStore.ValidateState(c.Request.Context(), c.Query("state")); err != nil {
		response.AuthError(c, "state 校验失败")
		return
	}

	code := c.Query("code")
	if code == "" {
		response.ParamError(c, "缺少授权码")
		return
	}

	resp, err := h.authService.GoogleCallback(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserInactive),
			errors.Is(err, service.ErrNotGoogleAccount):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	h.setAuthCookies(c, resp)
	response.SuccessWithMessage(c, "登录成功", resp)
}

// Refresh 刷新 access token
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshCookie)
	if err != nil || refreshToken == "" {
		response.AuthError(c, "请提供 refresh token")
		return
	}

	resp, err := h.authService.Refresh(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefresh),
			errors.Is(err, service.ErrUserNotFound):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	h.setAuthCookies(c, resp)
	response.Success(c, resp)
}

// Logout 登出
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearAuthCookies(c)
	response.SuccessWithMessage(c, "已登出", nil)
}

// ChangePassword 修改密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.ChangePassword(userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrSamePassword),
			errors.Is(err, service.ErrGoogleAccount):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "密码修改成功", nil)
}

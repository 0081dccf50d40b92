package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/petguard/petguard_go_server/internal/pkg/jwt"
	"github.com/petguard/petguard_go_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"

	// TokenCookie 前端把 access token 存在 cookie 里
	TokenCookie = "token"
	// RefreshCookie refresh token 的 cookie 名
	RefreshCookie = "refreshToken"
)

// extractToken 优先取 cookie，其次取 Authorization: Bearer 头
func extractToken(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err == nil {
			c.Set(UserIDKey, claims.UserID)
		}

		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=50"`
	LastName string `json:"last_name" binding:"max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleTokenRequest Google 登录/注册请求
type GoogleTokenRequest struct {
	GoogleToken string `json:"google_token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=64"`
}

// LoginResponse 登录/注册响应，token 同时由 handler 写入 cookie
type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	User         *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	LastName    string        `json:"last_name"`
	Username    string        `json:"user_name"`
	Email       string        `json:"email,omitempty"`
	AvatarURL   string        `json:"avatar_url"`
	Bio         string        `json:"bio"`
	TypeUser    string        `json:"type_user"`
	GoogleAuth  bool          `json:"google_auth"`
	CreatedAt   string        `json:"created_at,omitempty"`
	SocialLinks []*SocialLink `json:"social_links,omitempty"`
}

// SocialLink 社交链接
type SocialLink struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Platform string `json:"platform_name"`
	URL      string `json:"url"`
}

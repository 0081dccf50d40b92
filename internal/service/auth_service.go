package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/config"
	"github.com/petguard/petguard_go_server/internal/model"
	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/avatar"
	"github.com/petguard/petguard_go_server/internal/pkg/jwt"
	"github.com/petguard/petguard_go_server/internal/pkg/oauth"
	"github.com/petguard/petguard_go_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserInactive       = errors.New("账号已注销")
	ErrGoogleAccount      = errors.New("该账号通过 Google 注册，请使用 Google 登录")
	ErrNotGoogleAccount   = errors.New("该邮箱不是 Google 账号，请使用密码登录")
	ErrInvalidGoogleToken = errors.New("Google token 无效")
	ErrInvalidRefresh     = errors.New("refresh token 无效或已过期")
	ErrWrongPassword      = errors.New("当前密码错误")
	ErrSamePassword       = errors.New("新密码不能与当前密码相同")
)

type AuthService struct {
	userRepo    *repository.UserRepository
	cfg         *config.Config
	googleOAuth *oauth.GoogleOAuth
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		googleOAuth: oauth.NewGoogleOAuth(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			cfg.OAuth.Google.RedirectURI,
		),
	}
}

// Register 邮箱注册，注册成功直接登录
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:      req.Name,
		LastName:  req.LastName,
		Username:  s.uniqueUsername(email),
		Email:     email,
		Password:  string(hashedPassword),
		AvatarURL: avatar.URL(req.Name, req.LastName),
		TypeUser:  "user",
		IsActive:  true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// Login 邮箱密码登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// Google 注册的账号没有可用密码
	if user.GoogleAuth {
		return nil, ErrGoogleAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// GoogleRegister 用 Google ID token 注册并登录
func (s *AuthService) GoogleRegister(ctx context.Context, req *dto.GoogleTokenRequest) (*dto.LoginResponse, error) {
	info, err := s.googleOAuth.VerifyIDToken(ctx, req.GoogleToken)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	return s.googleRegisterOrLogin(info)
}

func (s *AuthService) googleRegisterOrLogin(info *oauth.GoogleIDToken) (*dto.LoginResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(info.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		// 已注册过的 Google 账号直接走登录
		return s.googleLogin(info)
	}

	// Google 账号没有本地密码，用 subject 哈希占位
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(info.Subject), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name, lastName := info.GivenName, info.FamilyName
	if name == "" {
		name = info.Name
	}

	avatarURL := info.Picture
	if avatarURL == "" {
		avatarURL = avatar.URL(name, lastName)
	}

	user := &model.User{
		Name:       name,
		LastName:   lastName,
		Username:   s.uniqueUsername(info.Email),
		Email:      info.Email,
		Password:   string(hashedPassword),
		AvatarURL:  avatarURL,
		TypeUser:   "user",
		GoogleAuth: true,
		IsActive:   true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

// GoogleLogin 用 Google ID token 登录已有账号
func (s *AuthService) GoogleLogin(ctx context.Context, req *dto.GoogleTokenRequest) (*dto.LoginResponse, error) {
	info, err := s.googleOAuth.VerifyIDToken(ctx, req.GoogleToken)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	return s.googleLogin(info)
}

func (s *AuthService) googleLogin(info *oauth.GoogleIDToken) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(info.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.GoogleAuth {
		return nil, ErrNotGoogleAccount
	}

	return s.issueTokens(user)
}

// GetGoogleAuthURL 获取 Google 授权 URL（授权码流程）
func (s *AuthService) GetGoogleAuthURL(state string) string {
	return s.googleOAuth.GetAuthURL(state)
}

// GoogleCallback 处理 Google OAuth 授权码回调
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.googleOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	googleUser, err := s.googleOAuth.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get google user: %w", err)
	}

	return s.googleRegisterOrLogin(&oauth.GoogleIDToken{
		Subject:    googleUser.ID,
		Email:      googleUser.Email,
		Name:       googleUser.Name,
		GivenName:  googleUser.GivenName,
		FamilyName: googleUser.FamilyName,
		Picture:    googleUser.Picture,
	})
}

// Refresh 用 refresh token 换取新的 access token
func (s *AuthService) Refresh(refreshToken string) (*dto.LoginResponse, error) {
	claims, err := jwt.ParseToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.GetActiveByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return s.issueTokens(user)
}

// ChangePassword 修改密码
func (s *AuthService) ChangePassword(userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetActiveByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.GoogleAuth {
		return ErrGoogleAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	if req.CurrentPassword == req.NewPassword {
		return ErrSamePassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashedPassword)
	return s.userRepo.Update(user)
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	return s.userRepo.GetByID(id)
}

func (s *AuthService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateToken(user.ID, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         buildUserInfo(user),
	}, nil
}

// uniqueUsername 从邮箱生成用户名，碰撞时换一个随机后缀重试
func (s *AuthService) uniqueUsername(email string) string {
	for i := 0; i < 5; i++ {
		username := avatar.Username(email)
		exists, err := s.userRepo.ExistsByUsername(username)
		if err == nil && !exists {
			return username
		}
	}
	return fmt.Sprintf("user_%d", time.Now().UnixNano())
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:         user.ID,
		Name:       user.Name,
		LastName:   user.LastName,
		Username:   user.Username,
		Email:      user.Email,
		AvatarURL:  user.AvatarURL,
		Bio:        user.Bio,
		TypeUser:   user.TypeUser,
		GoogleAuth: user.GoogleAuth,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}

	for _, link := range user.SocialLinks {
		info.SocialLinks = append(info.SocialLinks, &dto.SocialLink{
			ID:       link.ID,
			UserID:   link.UserID,
			Platform: link.Platform,
			URL:      link.URL,
		})
	}

	return info
}

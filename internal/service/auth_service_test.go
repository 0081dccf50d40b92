package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/petguard/petguard_go_server/config"
	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/jwt"
	"github.com/petguard/petguard_go_server/internal/repository"
	"github.com/petguard/petguard_go_server/internal/testutil"
	"gorm.io/gorm"
)

func testAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.JWT.RefreshSecret = "test-refresh-secret"
	cfg.JWT.RefreshExpireHours = 24
	return cfg
}

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(db), testAuthConfig())
}

func TestAuthService_Register_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	resp, err := service.Register(&dto.RegisterRequest{
		Name:     "Ada",
		LastName: "Lovelace",
		Email:    "Ada@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	// 邮箱统一小写存储
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.User.Username)
	assert.NotEmpty(t, resp.User.AvatarURL)

	// access token 可以被解析
	claims, err := jwt.ParseToken(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthService_Register_EmailExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	testutil.TestUser(t, db, testutil.WithEmail("taken@example.com"))

	_, err := service.Register(&dto.RegisterRequest{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := testutil.TestUser(t, db, testutil.WithEmail("login@example.com"))
	user.Password = string(hash)
	require.NoError(t, db.Save(user).Error)

	resp, err := service.Login(&dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := testutil.TestUser(t, db, testutil.WithEmail("wrong@example.com"))
	user.Password = string(hash)
	require.NoError(t, db.Save(user).Error)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "wrong@example.com",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_GoogleAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	testutil.TestUser(t, db,
		testutil.WithEmail("google@example.com"),
		testutil.WithGoogleAuth(),
	)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "google@example.com",
		Password: "whatever123",
	})
	assert.ErrorIs(t, err, ErrGoogleAccount)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	testutil.TestUser(t, db,
		testutil.WithEmail("closed@example.com"),
		testutil.WithInactive(),
	)

	_, err := service.Login(&dto.LoginRequest{
		Email:    "closed@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	user := testutil.TestUser(t, db)
	refreshToken, err := jwt.GenerateToken(user.ID, "test-refresh-secret", 24)
	require.NoError(t, err)

	resp, err := service.Refresh(refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestAuthService_Refresh_WrongSecret(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	user := testutil.TestUser(t, db)
	// 用 access secret 签的 token 不能当 refresh token 用
	accessToken, err := jwt.GenerateToken(user.ID, "test-secret", 1)
	require.NoError(t, err)

	_, err = service.Refresh(accessToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestAuthService_Refresh_InactiveUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	user := testutil.TestUser(t, db, testutil.WithInactive())
	refreshToken, err := jwt.GenerateToken(user.ID, "test-refresh-secret", 24)
	require.NoError(t, err)

	_, err = service.Refresh(refreshToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ChangePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := testutil.TestUser(t, db, testutil.WithEmail("change@example.com"))
	user.Password = string(hash)
	require.NoError(t, db.Save(user).Error)

	err := service.ChangePassword(user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword1",
	})
	require.NoError(t, err)

	// 新密码可以登录
	_, err = service.Login(&dto.LoginRequest{
		Email:    "change@example.com",
		Password: "newpassword1",
	})
	assert.NoError(t, err)

	// 旧密码不再可用
	_, err = service.Login(&dto.LoginRequest{
		Email:    "change@example.com",
		Password: "oldpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := testutil.TestUser(t, db)
	user.Password = string(hash)
	require.NoError(t, db.Save(user).Error)

	err := service.ChangePassword(user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "guess",
		NewPassword:     "newpassword1",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_ChangePassword_Same(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := newAuthService(t, db)

	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)
	user := testutil.TestUser(t, db)
	user.Password = string(hash)
	require.NoError(t, db.Save(user).Error)

	err := service.ChangePassword(user.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "oldpassword",
		NewPassword:     "oldpassword",
	})
	assert.ErrorIs(t, err, ErrSamePassword)
}

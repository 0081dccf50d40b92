package service

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/oss"
	"github.com/petguard/petguard_go_server/internal/pkg/pubsub"
	"github.com/petguard/petguard_go_server/internal/repository"
)

var ErrUnsupportedImage = errors.New("不支持的图片格式")

type UserService struct {
	userRepo  *repository.UserRepository
	ossClient *oss.Client
	publisher *pubsub.Publisher
	sanitizer *bluemonday.Policy
}

func NewUserService(userRepo *repository.UserRepository, ossClient *oss.Client, publisher *pubsub.Publisher) *UserService {
	return &UserService{
		userRepo:  userRepo,
		ossClient: ossClient,
		publisher: publisher,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// GetProfile 获取当前用户详情
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetActiveByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return buildUserInfo(user), nil
}

// GetProfileByUsername 按用户名获取公开主页
func (s *UserService) GetProfileByUsername(username string) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetActiveByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	info := buildUserInfo(user)
	// 公开主页不暴露邮箱
	info.Email = ""
	return info, nil
}

// UpdateProfile 更新用户信息
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetActiveByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(s.sanitizer.Sanitize(*req.Bio))
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return buildUserInfo(user), nil
}

// UpdateAvatar 更新头像 URL 并广播给在线连接
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, avatarURL string) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetActiveByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.userRepo.UpdateAvatarURL(userID, avatarURL); err != nil {
		return nil, err
	}
	user.AvatarURL = avatarURL

	info := buildUserInfo(user)

	// 评论区等处缓存了作者头像，广播让前端刷新
	if s.publisher != nil {
		if err := s.publisher.PublishEvent(ctx, pubsub.EventUpdateImgProfile, "", info); err != nil {
			log.Printf("发布实时事件失败 event=%s: %v", pubsub.EventUpdateImgProfile, err)
		}
	}

	return info, nil
}

// UploadAvatar 上传头像文件到 OSS 并更新头像 URL
func (s *UserService) UploadAvatar(ctx context.Context, userID int64, file io.Reader, filename string) (*dto.UserInfo, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, ErrUnsupportedImage
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	url, err := s.ossClient.UploadAvatar(userID, data, ext)
	if err != nil {
		return nil, err
	}

	return s.UpdateAvatar(ctx, userID, url)
}

// Deactivate 注销账号（软删除，文章和评论保留）
func (s *UserService) Deactivate(userID int64) error {
	if _, err := s.userRepo.GetActiveByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.userRepo.SoftDelete(userID)
}

// Search 搜索用户
func (s *UserService) Search(keyword string, limit int) ([]*dto.UserInfo, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*dto.UserInfo{}, nil
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	users, err := s.userRepo.SearchActive(keyword, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.UserInfo, len(users))
	for i, u := range users {
		items[i] = buildUserInfo(u)
		items[i].Email = ""
	}
	return items, nil
}

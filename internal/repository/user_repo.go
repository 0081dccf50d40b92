package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户并初始化默认社交链接
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		for _, platform := range model.DefaultPlatforms {
			link := &model.SocialLink{UserID: user.ID, Platform: platform}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID 根据 ID 获取用户
func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveByID 获取未注销的用户
func (r *UserRepository) GetActiveByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetActiveByUsername 根据用户名获取用户（含社交链接）
func (r *UserRepository) GetActiveByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("SocialLinks").
		Where("user_name = ? AND is_active = ?", username, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername 检查用户名是否已被占用
func (r *UserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("user_name = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail 检查邮箱是否已注册
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Update 更新用户
func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// SoftDelete 注销用户（置为 inactive，不物理删除）
func (r *UserRepository) SoftDelete(id int64) error {
	now := time.Now()
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_at": now,
		}).Error
}

// UpdateAvatarURL 更新头像地址
func (r *UserRepository) UpdateAvatarURL(id int64, avatarURL string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("avatar_url", avatarURL).Error
}

// SearchActive 按名字/用户名模糊搜索用户
func (r *UserRepository) SearchActive(keyword string, limit int) ([]*model.User, error) {
	var users []*model.User
	pattern := "%" + keyword + "%"
	err := r.db.Where("is_active = ?", true).
		Where("name LIKE ? OR last_name LIKE ? OR user_name LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&users).Error
	return users, err
}

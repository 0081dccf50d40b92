package repository

import (
	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
)

type SavedPostRepository struct {
	db *gorm.DB
}

func NewSavedPostRepository(db *gorm.DB) *SavedPostRepository {
	return &SavedPostRepository{db: db}
}

// Create 收藏文章
func (r *SavedPostRepository) Create(saved *model.SavedPost) error {
	return r.db.Create(saved).Error
}

// GetByID 根据 ID 获取收藏记录
func (r *SavedPostRepository) GetByID(id int64) (*model.SavedPost, error) {
	var saved model.SavedPost
	err := r.db.Where("id = ?", id).First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListByUserID 获取用户的全部收藏
func (r *SavedPostRepository) ListByUserID(userID int64) ([]*model.SavedPost, error) {
	var saved []*model.SavedPost
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	return saved, err
}

// Exists 检查是否已收藏
func (r *SavedPostRepository) Exists(userID, postID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.SavedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// Delete 取消收藏
func (r *SavedPostRepository) Delete(id int64) error {
	result := r.db.Delete(&model.SavedPost{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

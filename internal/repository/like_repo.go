package repository

import (
	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create 点赞
func (r *LikeRepository) Create(like *model.Like) error {
	return r.db.Create(like).Error
}

// Delete 取消点赞
func (r *LikeRepository) Delete(userID, postID int64) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{}).Error
}

// Exists 检查是否已点赞
func (r *LikeRepository) Exists(userID, postID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// CountByPostID 获取文章点赞数
func (r *LikeRepository) CountByPostID(postID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// GetActiveByID 获取未删除的评论
func (r *CommentRepository) GetActiveByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ? AND is_active = ?", id, true).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListPageByPostID 分页获取文章的评论（扁平列表，含作者，按创建时间倒序，
// 只取未删除的；树形结构由调用方组装）
func (r *CommentRepository) ListPageByPostID(postID int64, limit, offset int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Preload("User").
		Where("post_id = ? AND is_active = ?", postID, true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// CountByPostID 获取文章的评论数
func (r *CommentRepository) CountByPostID(postID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("post_id = ? AND is_active = ?", postID, true).
		Count(&count).Error
	return count, err
}

// MarkSubtreeDeleted 软删除评论及其全部子孙回复。
// 闭包用迭代不动点计算：从根开始反复收集 parent_comment_id 落在
// 当前集合里的评论，直到没有新 id；整个更新在一个事务内完成，
// 返回全部被删除的 id（含根）
func (r *CommentRepository) MarkSubtreeDeleted(rootID, actorID int64) ([]int64, error) {
	var deletedIDs []int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var root model.Comment
		if err := tx.Where("id = ? AND is_active = ?", rootID, true).First(&root).Error; err != nil {
			return err
		}

		all := []int64{rootID}
		seen := map[int64]struct{}{rootID: {}}
		frontier := []int64{rootID}

		for len(frontier) > 0 {
			var children []int64
			err := tx.Model(&model.Comment{}).
				Where("parent_comment_id IN ? AND is_active = ?", frontier, true).
				Pluck("id", &children).Error
			if err != nil {
				return err
			}

			frontier = frontier[:0]
			for _, id := range children {
				if _, ok := seen[id]; ok {
					continue
				}
				seen[id] = struct{}{}
				all = append(all, id)
				frontier = append(frontier, id)
			}
		}

		now := time.Now()
		err := tx.Model(&model.Comment{}).
			Where("id IN ?", all).
			Updates(map[string]interface{}{
				"is_active":  false,
				"deleted_at": now,
				"deleted_by": actorID,
			}).Error
		if err != nil {
			return err
		}

		deletedIDs = all
		return nil
	})
	if err != nil {
		return nil, err
	}

	return deletedIDs, nil
}

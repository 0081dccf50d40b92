package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// preloadAll 列表/详情通用的关联加载
func (r *PostRepository) preloadAll() *gorm.DB {
	return r.db.Preload("User").
		Preload("Tags").
		Preload("Images").
		Preload("Likes.User")
}

// Create 创建文章，标签在同一事务内 upsert 并建立关联
func (r *PostRepository) Create(post *model.Post, tags []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(post).Error; err != nil {
			return err
		}

		for _, name := range tags {
			tag, err := upsertTag(tx, name)
			if err != nil {
				return err
			}
			if err := tx.Model(post).Association("Tags").Append(tag); err != nil {
				return err
			}
		}
		return nil
	})
}

// upsertTag 查到已有标签则复用，否则插入
func upsertTag(tx *gorm.DB, name string) (*model.Tag, error) {
	var tag model.Tag
	err := tx.Where("tag = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tag = model.Tag{Tag: name}
	if err := tx.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// GetActiveByID 获取未删除的文章（含全部关联）
func (r *PostRepository) GetActiveByID(id int64) (*model.Post, error) {
	var post model.Post
	err := r.preloadAll().
		Where("id = ? AND is_active = ?", id, true).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetActiveBySlug 根据 slug 获取文章（含全部关联）
func (r *PostRepository) GetActiveBySlug(slug string) (*model.Post, error) {
	var post model.Post
	err := r.preloadAll().
		Where("slug = ? AND is_active = ?", slug, true).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListActive 分页获取文章列表（含全部关联，按创建时间倒序）
func (r *PostRepository) ListActive(limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.preloadAll().
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// ListActiveByUserID 获取某用户的文章
func (r *PostRepository) ListActiveByUserID(userID int64) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.preloadAll().
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// ListActiveByTag 获取带某标签的文章
func (r *PostRepository) ListActiveByTag(tag string) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.preloadAll().
		Where("is_active = ?", true).
		Where("id IN (?)", r.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.tag = ?", tag)).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// SearchActive 按标题/描述模糊搜索文章
func (r *PostRepository) SearchActive(keyword string, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	pattern := "%" + keyword + "%"
	err := r.preloadAll().
		Where("is_active = ?", true).
		Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	return posts, err
}

// ListTrending 阅读数最高的前 N 篇
func (r *PostRepository) ListTrending(limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.Preload("User").
		Where("is_active = ? AND draft = ?", true, false).
		Order("read_count DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// CountTagUsage 统计每个标签被使用的次数
func (r *PostRepository) CountTagUsage() ([]*TagUsage, error) {
	var rows []*TagUsage
	err := r.db.Table("post_tags").
		Select("tags.id AS tag_id, tags.tag AS tag, COUNT(*) AS count").
		Joins("JOIN tags ON tags.id = post_tags.tag_id").
		Group("tags.id, tags.tag").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

// TagUsage 标签使用统计行
type TagUsage struct {
	TagID int64  `json:"tag_id"`
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// Update 更新文章
func (r *PostRepository) Update(post *model.Post) error {
	return r.db.Omit("Tags", "Images", "Likes", "User").Save(post).Error
}

// ReplaceTags 重建文章的标签关联
func (r *PostRepository) ReplaceTags(post *model.Post, tags []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		newTags := make([]*model.Tag, 0, len(tags))
		for _, name := range tags {
			tag, err := upsertTag(tx, name)
			if err != nil {
				return err
			}
			newTags = append(newTags, tag)
		}
		return tx.Model(post).Association("Tags").Replace(newTags)
	})
}

// AddImages 追加文章图片
func (r *PostRepository) AddImages(postID int64, images []*model.PostImage) error {
	if len(images) == 0 {
		return nil
	}
	for _, img := range images {
		img.PostID = postID
	}
	return r.db.Create(&images).Error
}

// SoftDelete 软删除文章
func (r *PostRepository) SoftDelete(id int64) error {
	now := time.Now()
	return r.db.Model(&model.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"deleted_at": now,
		}).Error
}

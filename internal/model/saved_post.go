package model

import (
	"time"
)

type SavedPost struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_saved_user_post" json:"user_id"`
	PostID    int64     `gorm:"not null;uniqueIndex:idx_saved_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// 关联
	Post *Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

func (SavedPost) TableName() string {
	return "saved_posts"
}

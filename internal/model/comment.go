package model

import (
	"time"
)

type Comment struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	PostID    int64      `gorm:"not null;index" json:"post_id"`
	ParentID  *int64     `gorm:"column:parent_comment_id;index" json:"parent_comment_id,omitempty"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *int64     `json:"deleted_by,omitempty"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

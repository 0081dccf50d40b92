package model

import (
	"time"
)

type Post struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	UserID      int64      `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Description string     `gorm:"size:500" json:"description"`
	Banner      string     `gorm:"size:500" json:"banner"`
	Country     string     `gorm:"size:100" json:"country"`
	State       string     `gorm:"size:100" json:"state"`
	City        string     `gorm:"size:100" json:"city"`
	Slug        string     `gorm:"size:250;uniqueIndex" json:"slug"`
	Draft       bool       `gorm:"default:false" json:"draft"`
	ReadCount   int64      `gorm:"default:0" json:"read_count"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`

	// 关联
	User   *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Tags   []*Tag       `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Images []*PostImage `gorm:"foreignKey:PostID" json:"images,omitempty"`
	Likes  []*Like      `gorm:"foreignKey:PostID" json:"likes,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

type Tag struct {
	ID  int64  `gorm:"primaryKey" json:"id"`
	Tag string `gorm:"size:50;uniqueIndex;not null" json:"tag"`
}

func (Tag) TableName() string {
	return "tags"
}

type PostImage struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	PostID   int64  `gorm:"column:blog_id;not null;index" json:"post_id"`
	ImageURL string `gorm:"size:500;not null" json:"url"`
	AltText  string `gorm:"size:200" json:"alt"`
}

func (PostImage) TableName() string {
	return "blog_images"
}

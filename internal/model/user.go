package model

import (
	"time"
)

type User struct {
	ID         int64      `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:50;not null" json:"name"`
	LastName   string     `gorm:"size:50" json:"last_name"`
	Username   string     `gorm:"column:user_name;size:50;uniqueIndex;not null" json:"user_name"`
	Email      string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password   string     `gorm:"size:255;not null" json:"-"`
	AvatarURL  string     `gorm:"size:500" json:"avatar_url"`
	Bio        string     `gorm:"type:text" json:"bio"`
	TypeUser   string     `gorm:"size:20;default:user" json:"type_user"`
	GoogleAuth bool       `gorm:"default:false" json:"google_auth"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`

	// 关联
	SocialLinks []*SocialLink `gorm:"foreignKey:UserID" json:"social_links,omitempty"`
}

func (User) TableName() string {
	return "users"
}

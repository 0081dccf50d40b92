package model

type SocialLink struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	UserID   int64  `gorm:"not null;index" json:"user_id"`
	Platform string `gorm:"size:30;not null" json:"platform_name"`
	URL      string `gorm:"size:500" json:"url"`
}

func (SocialLink) TableName() string {
	return "social_links"
}

// DefaultPlatforms 注册时初始化的社交平台
var DefaultPlatforms = []string{"facebook", "instagram", "youtube", "website"}

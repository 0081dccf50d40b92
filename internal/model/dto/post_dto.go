package dto

// CreatePostRequest 创建文章请求
type CreatePostRequest struct {
	Title       string      `json:"title" binding:"required,min=1,max=200"`
	Content     string      `json:"content" binding:"required"`
	Description string      `json:"description" binding:"max=500"`
	Banner      string      `json:"banner"`
	Country     string      `json:"country"`
	State       string      `json:"state"`
	City        string      `json:"city"`
	Slug        string      `json:"slug" binding:"required,max=250"`
	Draft       bool        `json:"draft"`
	Tags        []string    `json:"postTags"`
	Images      []PostImage `json:"images"`
}

// UpdatePostRequest 更新文章请求
type UpdatePostRequest struct {
	Title       *string  `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Content     *string  `json:"content,omitempty"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=500"`
	Banner      *string  `json:"banner,omitempty"`
	Country     *string  `json:"country,omitempty"`
	State       *string  `json:"state,omitempty"`
	City        *string  `json:"city,omitempty"`
	Draft       *bool    `json:"draft,omitempty"`
	Tags        []string `json:"postTags,omitempty"`
}

// PostItem 文章项（列表/详情通用，附带作者、标签、图片、点赞聚合）
type PostItem struct {
	ID          int64       `json:"post_id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Description string      `json:"description,omitempty"`
	Banner      string      `json:"banner"`
	Country     string      `json:"country"`
	State       string      `json:"state"`
	City        string      `json:"city"`
	Slug        string      `json:"slug"`
	Draft       bool        `json:"draft"`
	ReadCount   int64       `json:"read_count"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
	User        *PostUser   `json:"users"`
	Tags        []string    `json:"tags"`
	Images      []PostImage `json:"blog_images"`
	TotalLikes  int64       `json:"total_likes"`
	LikedBy     []*PostUser `json:"liked_by"`
}

// PostUser 文章作者/点赞用户快照
type PostUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LastName  string `json:"last_name"`
	Username  string `json:"user_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// PostImage 文章图片
type PostImage struct {
	ID  int64  `json:"id,omitempty"`
	URL string `json:"url" binding:"required"`
	Alt string `json:"alt"`
}

// TagCount 标签使用次数
type TagCount struct {
	TagID int64  `json:"tag_id"`
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// ReadCountRequest 阅读数上报
type ReadCountRequest struct {
	PostID int64 `json:"post_id" binding:"required"`
}

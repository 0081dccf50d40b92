package dto

// SavePostRequest 收藏文章请求
type SavePostRequest struct {
	PostID int64 `json:"postId" binding:"required"`
}

// SavedPostItem 收藏项
type SavedPostItem struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt string    `json:"created_at"`
	Post      *PostItem `json:"post,omitempty"`
}

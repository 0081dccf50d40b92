package dto

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	PostID   int64  `json:"post_id" binding:"required"`
	Content  string `json:"content" binding:"required,min=1,max=1000"`
	ParentID *int64 `json:"parent_comment_id,omitempty"`
}

// CommentItem 评论节点（树形结构，由扁平记录组装）
type CommentItem struct {
	ID        int64          `json:"comment_id"`
	PostID    int64          `json:"post_id"`
	UserID    int64          `json:"user_id"`
	ParentID  *int64         `json:"parent_comment_id"`
	Content   string         `json:"content"`
	IsActive  bool           `json:"is_active"`
	CreatedAt string         `json:"created_at"`
	User      *CommentUser   `json:"users"`
	Replies   []*CommentItem `json:"replies"`
	Level     int            `json:"level"`
}

// CommentUser 评论作者快照
type CommentUser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LastName  string `json:"last_name"`
	Username  string `json:"user_name"`
	AvatarURL string `json:"avatar_url"`
}

// DeleteCommentResponse 删除评论响应
type DeleteCommentResponse struct {
	DeletedIDs []int64 `json:"deletedIds"`
}

package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/pubsub"
	"github.com/petguard/petguard_go_server/internal/pkg/ws"
	"github.com/petguard/petguard_go_server/internal/repository"
)

var (
	ErrCommentNotFound   = errors.New("评论不存在")
	ErrCommentPermission = errors.New("无权操作此评论")
	ErrCommentEmpty      = errors.New("评论内容不能为空")
	ErrParentNotFound    = errors.New("父评论不存在")
	ErrParentNotInPost   = errors.New("父评论不属于该文章")
)

const defaultCommentPageSize = 20

type CommentService struct {
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
	userRepo    *repository.UserRepository
	publisher   *pubsub.Publisher
	sanitizer   *bluemonday.Policy
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	postRepo *repository.PostRepository,
	userRepo *repository.UserRepository,
	publisher *pubsub.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// Create 创建评论
func (s *CommentService) Create(ctx context.Context, userID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" {
		return nil, ErrCommentEmpty
	}

	// 验证文章存在且未删除
	if _, err := s.postRepo.GetActiveByID(req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	// 如果是回复，验证父评论
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetActiveByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}

		// 验证父评论属于同一文章
		if parent.PostID != req.PostID {
			return nil, ErrParentNotInPost
		}
	}

	user, err := s.userRepo.GetActiveByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		UserID:   userID,
		PostID:   req.PostID,
		ParentID: req.ParentID,
		Content:  content,
		IsActive: true,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	comment.User = user
	item := s.buildCommentItem(comment)

	// 广播给所有在线连接，前端据此刷新评论区
	s.publish(ctx, pubsub.EventUpdateComments, "", item)

	return item, nil
}

// Delete 删除评论及其全部子回复，返回被删除的评论ID
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) (*dto.DeleteCommentResponse, error) {
	comment, err := s.commentRepo.GetActiveByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	// 验证权限
	if comment.UserID != userID {
		return nil, ErrCommentPermission
	}

	deletedIDs, err := s.commentRepo.MarkSubtreeDeleted(commentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	resp := &dto.DeleteCommentResponse{DeletedIDs: deletedIDs}

	// 只广播给订阅了该文章房间的连接
	s.publish(ctx, pubsub.EventDeleteComment, ws.RoomKey(comment.PostID), resp)

	return resp, nil
}

// ListByPostID 获取文章的评论树（分页基于扁平记录，组装后返回根节点）
func (s *CommentService) ListByPostID(postID int64, page, pageSize int) ([]*dto.CommentItem, int64, error) {
	if _, err := s.postRepo.GetActiveByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPostNotFound
		}
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultCommentPageSize
	}

	comments, err := s.commentRepo.ListPageByPostID(postID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.commentRepo.CountByPostID(postID)
	if err != nil {
		return nil, 0, err
	}

	records := make([]*dto.CommentItem, len(comments))
	for i, c := range comments {
		records[i] = s.buildCommentItem(c)
	}

	return BuildCommentTree(records), total, nil
}

func (s *CommentService) buildCommentItem(c *model.Comment) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:        c.ID,
		PostID:    c.PostID,
		UserID:    c.UserID,
		ParentID:  c.ParentID,
		Content:   c.Content,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		Replies:   []*dto.CommentItem{},
	}

	if c.User != nil {
		item.User = &dto.CommentUser{
			ID:        c.User.ID,
			Name:      c.User.Name,
			LastName:  c.User.LastName,
			Username:  c.User.Username,
			AvatarURL: c.User.AvatarURL,
		}
	}

	return item
}

// publish 发布实时事件，失败只记录日志不影响主流程
func (s *CommentService) publish(ctx context.Context, event, room string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, event, room, payload); err != nil {
		log.Printf("发布实时事件失败 event=%s: %v", event, err)
	}
}

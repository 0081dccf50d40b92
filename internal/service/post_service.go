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
	"github.com/petguard/petguard_go_server/internal/pkg/readcount"
	"github.com/petguard/petguard_go_server/internal/repository"
)

var (
	ErrPostNotFound   = errors.New("文章不存在")
	ErrPostPermission = errors.New("无权操作此文章")
	ErrSlugExists     = errors.New("slug 已被使用")
	ErrAlreadyLiked   = errors.New("已经点过赞了")
	ErrNotLiked       = errors.New("尚未点赞")
)

const (
	defaultPostPageSize  = 10
	defaultTrendingLimit = 5
)

type PostService struct {
	postRepo  *repository.PostRepository
	likeRepo  *repository.LikeRepository
	userRepo  *repository.UserRepository
	counter   *readcount.Counter
	sanitizer *bluemonday.Policy
}

func NewPostService(
	postRepo *repository.PostRepository,
	likeRepo *repository.LikeRepository,
	userRepo *repository.UserRepository,
	counter *readcount.Counter,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		likeRepo:  likeRepo,
		userRepo:  userRepo,
		counter:   counter,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Create 创建文章
func (s *PostService) Create(userID int64, req *dto.CreatePostRequest) (*dto.PostItem, error) {
	if _, err := s.userRepo.GetActiveByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	slug := normalizeSlug(req.Slug)
	if _, err := s.postRepo.GetActiveBySlug(slug); err == nil {
		return nil, ErrSlugExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	post := &model.Post{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Content:     s.sanitizer.Sanitize(req.Content),
		Description: strings.TrimSpace(req.Description),
		Banner:      req.Banner,
		Country:     req.Country,
		State:       req.State,
		City:        req.City,
		Slug:        slug,
		Draft:       req.Draft,
		IsActive:    true,
	}

	if err := s.postRepo.Create(post, normalizeTags(req.Tags)); err != nil {
		return nil, err
	}

	if len(req.Images) > 0 {
		images := make([]*model.PostImage, len(req.Images))
		for i, img := range req.Images {
			images[i] = &model.PostImage{ImageURL: img.URL, AltText: img.Alt}
		}
		if err := s.postRepo.AddImages(post.ID, images); err != nil {
			return nil, err
		}
	}

	created, err := s.postRepo.GetActiveByID(post.ID)
	if err != nil {
		return nil, err
	}
	return s.buildPostItem(created), nil
}

// GetByID 获取文章详情
func (s *PostService) GetByID(postID int64) (*dto.PostItem, error) {
	post, err := s.postRepo.GetActiveByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.buildPostItem(post), nil
}

// GetBySlug 按 slug 获取文章详情
func (s *PostService) GetBySlug(slug string) (*dto.PostItem, error) {
	post, err := s.postRepo.GetActiveBySlug(normalizeSlug(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return s.buildPostItem(post), nil
}

// List 分页获取文章列表
func (s *PostService) List(page, pageSize int) ([]*dto.PostItem, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = defaultPostPageSize
	}

	posts, err := s.postRepo.ListActive(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildPostItems(posts), nil
}

// ListByUsername 获取某个用户的文章
func (s *PostService) ListByUsername(username string) ([]*dto.PostItem, error) {
	user, err := s.userRepo.GetActiveByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	posts, err := s.postRepo.ListActiveByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	return s.buildPostItems(posts), nil
}

// ListByTag 按标签筛选文章
func (s *PostService) ListByTag(tag string) ([]*dto.PostItem, error) {
	posts, err := s.postRepo.ListActiveByTag(strings.ToLower(strings.TrimSpace(tag)))
	if err != nil {
		return nil, err
	}
	return s.buildPostItems(posts), nil
}

// Search 按关键词搜索文章
func (s *PostService) Search(keyword string, page, pageSize int) ([]*dto.PostItem, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*dto.PostItem{}, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = defaultPostPageSize
	}

	posts, err := s.postRepo.SearchActive(keyword, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.buildPostItems(posts), nil
}

// Trending 按阅读数取热门文章
func (s *PostService) Trending(limit int) ([]*dto.PostItem, error) {
	if limit < 1 || limit > 50 {
		limit = defaultTrendingLimit
	}

	posts, err := s.postRepo.ListTrending(limit)
	if err != nil {
		return nil, err
	}
	return s.buildPostItems(posts), nil
}

// Tags 获取标签及使用次数
func (s *PostService) Tags() ([]*dto.TagCount, error) {
	rows, err := s.postRepo.CountTagUsage()
	if err != nil {
		return nil, err
	}

	items := make([]*dto.TagCount, len(rows))
	for i, row := range rows {
		items[i] = &dto.TagCount{TagID: row.TagID, Tag: row.Tag, Count: row.Count}
	}
	return items, nil
}

// Update 更新文章
func (s *PostService) Update(userID, postID int64, req *dto.UpdatePostRequest) (*dto.PostItem, error) {
	post, err := s.postRepo.GetActiveByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.UserID != userID {
		return nil, ErrPostPermission
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = s.sanitizer.Sanitize(*req.Content)
	}
	if req.Description != nil {
		post.Description = strings.TrimSpace(*req.Description)
	}
	if req.Banner != nil {
		post.Banner = *req.Banner
	}
	if req.Country != nil {
		post.Country = *req.Country
	}
	if req.State != nil {
		post.State = *req.State
	}
	if req.City != nil {
		post.City = *req.City
	}
	if req.Draft != nil {
		post.Draft = *req.Draft
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}

	if req.Tags != nil {
		if err := s.postRepo.ReplaceTags(post, normalizeTags(req.Tags)); err != nil {
			return nil, err
		}
	}

	updated, err := s.postRepo.GetActiveByID(postID)
	if err != nil {
		return nil, err
	}
	return s.buildPostItem(updated), nil
}

// Delete 软删除文章
func (s *PostService) Delete(userID, postID int64) error {
	post, err := s.postRepo.GetActiveByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.UserID != userID {
		return ErrPostPermission
	}

	return s.postRepo.SoftDelete(postID)
}

// Like 点赞文章
func (s *PostService) Like(userID, postID int64) error {
	if _, err := s.postRepo.GetActiveByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	exists, err := s.likeRepo.Exists(userID, postID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyLiked
	}

	return s.likeRepo.Create(&model.Like{UserID: userID, PostID: postID})
}

// Unlike 取消点赞
func (s *PostService) Unlike(userID, postID int64) error {
	exists, err := s.likeRepo.Exists(userID, postID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotLiked
	}

	return s.likeRepo.Delete(userID, postID)
}

// IncrReadCount 阅读数先累计在 redis，定时任务批量回写数据库
func (s *PostService) IncrReadCount(ctx context.Context, postID int64) error {
	if _, err := s.postRepo.GetActiveByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if s.counter == nil {
		return nil
	}
	if err := s.counter.Incr(ctx, postID); err != nil {
		log.Printf("阅读数累计失败 post=%d: %v", postID, err)
	}
	return nil
}

func (s *PostService) buildPostItems(posts []*model.Post) []*dto.PostItem {
	items := make([]*dto.PostItem, len(posts))
	for i, p := range posts {
		items[i] = s.buildPostItem(p)
	}
	return items
}

func (s *PostService) buildPostItem(p *model.Post) *dto.PostItem {
	item := &dto.PostItem{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Description: p.Description,
		Banner:      p.Banner,
		Country:     p.Country,
		State:       p.State,
		City:        p.City,
		Slug:        p.Slug,
		Draft:       p.Draft,
		ReadCount:   p.ReadCount,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
		Tags:        []string{},
		Images:      []dto.PostImage{},
		LikedBy:     []*dto.PostUser{},
	}

	if p.User != nil {
		item.User = &dto.PostUser{
			ID:        p.User.ID,
			Name:      p.User.Name,
			LastName:  p.User.LastName,
			Username:  p.User.Username,
			AvatarURL: p.User.AvatarURL,
		}
	}

	for _, tag := range p.Tags {
		item.Tags = append(item.Tags, tag.Tag)
	}

	for _, img := range p.Images {
		item.Images = append(item.Images, dto.PostImage{
			ID:  img.ID,
			URL: img.ImageURL,
			Alt: img.AltText,
		})
	}

	item.TotalLikes = int64(len(p.Likes))
	for _, like := range p.Likes {
		if like.User == nil {
			continue
		}
		item.LikedBy = append(item.LikedBy, &dto.PostUser{
			ID:       like.User.ID,
			Name:     like.User.Name,
			LastName: like.User.LastName,
		})
	}

	return item
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// normalizeTags 去空白、转小写、去重，保持输入顺序
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

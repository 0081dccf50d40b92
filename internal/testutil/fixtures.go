package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/petguard/petguard_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	nano := time.Now().UnixNano()
	user := &model.User{
		Name:      "Test",
		LastName:  "User",
		Username:  fmt.Sprintf("testuser_%d", nano%1000000),
		Email:     fmt.Sprintf("test_%d@example.com", nano),
		Password:  "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		AvatarURL: "https://api.dicebear.com/9.x/notionists-neutral/svg?seed=Test,User",
		IsActive:  true,
	}

	for _, opt := range opts {
		opt(user)
	}
	inactive := !user.IsActive

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	// is_active 列有默认值 true，插入时 gorm 会忽略零值 false，注销状态要单独落库
	if inactive {
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test user: %v", err)
		}
		user.IsActive = false
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithGoogleAuth 标记为 Google 注册用户
func WithGoogleAuth() func(*model.User) {
	return func(u *model.User) {
		u.GoogleAuth = true
	}
}

// WithInactive 标记为已注销用户
func WithInactive() func(*model.User) {
	return func(u *model.User) {
		u.IsActive = false
	}
}

// TestPost 创建测试文章
func TestPost(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Post)) *model.Post {
	t.Helper()

	nano := time.Now().UnixNano()
	post := &model.Post{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Post %d", nano%1000000),
		Content:  "Test content",
		Slug:     fmt.Sprintf("test-post-%d", nano),
		IsActive: true,
	}

	for _, opt := range opts {
		opt(post)
	}
	inactive := !post.IsActive

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	if inactive {
		if err := db.Model(post).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test post: %v", err)
		}
		post.IsActive = false
	}

	return post
}

// WithTitle 设置文章标题
func WithTitle(title string) func(*model.Post) {
	return func(p *model.Post) {
		p.Title = title
	}
}

// WithSlug 设置文章 slug
func WithSlug(slug string) func(*model.Post) {
	return func(p *model.Post) {
		p.Slug = slug
	}
}

// WithDraft 标记为草稿
func WithDraft() func(*model.Post) {
	return func(p *model.Post) {
		p.Draft = true
	}
}

// WithReadCount 设置阅读数
func WithReadCount(count int64) func(*model.Post) {
	return func(p *model.Post) {
		p.ReadCount = count
	}
}

// WithPostInactive 标记为已删除文章
func WithPostInactive() func(*model.Post) {
	return func(p *model.Post) {
		p.IsActive = false
	}
}

// TestComment 创建测试评论
func TestComment(t *testing.T, db *gorm.DB, userID, postID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:   userID,
		PostID:   postID,
		Content:  content,
		IsActive: true,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复
func TestReply(t *testing.T, db *gorm.DB, userID, postID, parentID int64, content string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		UserID:   userID,
		PostID:   postID,
		ParentID: &parentID,
		Content:  content,
		IsActive: true,
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return comment
}

// TestLike 创建测试点赞
func TestLike(t *testing.T, db *gorm.DB, userID, postID int64) *model.Like {
	t.Helper()

	like := &model.Like{
		UserID: userID,
		PostID: postID,
	}

	if err := db.Create(like).Error; err != nil {
		t.Fatalf("Failed to create test like: %v", err)
	}

	return like
}

// TestSavedPost 创建测试收藏
func TestSavedPost(t *testing.T, db *gorm.DB, userID, postID int64) *model.SavedPost {
	t.Helper()

	saved := &model.SavedPost{
		UserID: userID,
		PostID: postID,
	}

	if err := db.Create(saved).Error; err != nil {
		t.Fatalf("Failed to create test saved post: %v", err)
	}

	return saved
}

package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/petguard/petguard_go_server/internal/api/middleware"
	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/response"
	"github.com/petguard/petguard_go_server/internal/service"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Create 创建文章
// POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.postService.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugExists):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "发布成功", item)
}

// List 文章列表
// GET /api/v1/posts
func (h *PostHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	items, err := h.postService.List(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Get 文章详情
// GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	item, err := h.postService.GetByID(postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, item)
}

// GetBySlug 按 slug 获取文章
// GET /api/v1/posts/slug/:slug
func (h *PostHandler) GetBySlug(c *gin.Context) {
	item, err := h.postService.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, item)
}

// ListByUsername 用户的文章列表
// GET /api/v1/posts/user/:username
func (h *PostHandler) ListByUsername(c *gin.Context) {
	items, err := h.postService.ListByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// ListByTag 按标签筛选
// GET /api/v1/posts/tag/:tag
func (h *PostHandler) ListByTag(c *gin.Context) {
	items, err := h.postService.ListByTag(c.Param("tag"))
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Search 搜索文章
// GET /api/v1/posts/search?q=xxx
func (h *PostHandler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	items, err := h.postService.Search(c.Query("q"), page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Trending 热门文章
// GET /api/v1/posts/trending
func (h *PostHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	items, err := h.postService.Trending(limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Tags 标签及使用次数
// GET /api/v1/posts/tags
func (h *PostHandler) Tags(c *gin.Context) {
	items, err := h.postService.Tags()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Update 更新文章
// PUT /api/v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.postService.Update(userID, postID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPostPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "更新成功", item)
}

// Delete 删除文章
// DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	if err := h.postService.Delete(userID, postID); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPostPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Like 点赞
// POST /api/v1/posts/:id/like
func (h *PostHandler) Like(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	if err := h.postService.Like(userID, postID); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrAlreadyLiked):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "点赞成功", nil)
}

// Unlike 取消点赞
// DELETE /api/v1/posts/:id/like
func (h *PostHandler) Unlike(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	if err := h.postService.Unlike(userID, postID); err != nil {
		switch {
		case errors.Is(err, service.ErrNotLiked):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已取消点赞", nil)
}

// ReadCount 阅读数上报
// POST /api/v1/posts/read-count
func (h *PostHandler) ReadCount(c *gin.Context) {
	var req dto.ReadCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.postService.IncrReadCount(c.Request.Context(), req.PostID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, nil)
}

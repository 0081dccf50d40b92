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

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// List 获取文章的评论树
// GET /api/v1/posts/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的文章ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	items, total, err := h.commentService.ListByPostID(postID, page, pageSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Create 发表评论
// POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.commentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound),
			errors.Is(err, service.ErrParentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCommentEmpty),
			errors.Is(err, service.ErrParentNotInPost):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "评论成功", item)
}

// Delete 删除评论及其全部子回复
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	resp, err := h.commentService.Delete(c.Request.Context(), userID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCommentPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", resp)
}

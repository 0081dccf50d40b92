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

type SavedPostHandler struct {
	savedPostService *service.SavedPostService
}

func NewSavedPostHandler(savedPostService *service.SavedPostService) *SavedPostHandler {
	return &SavedPostHandler{
		savedPostService: savedPostService,
	}
}

// Save 收藏文章
// POST /api/v1/save_posts
func (h *SavedPostHandler) Save(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SavePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.savedPostService.Save(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrAlreadySaved):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "收藏成功", item)
}

// List 收藏列表
// GET /api/v1/save_posts
func (h *SavedPostHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.savedPostService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Get 获取单条收藏
// GET /api/v1/save_posts/:id
func (h *SavedPostHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	savedID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的收藏ID")
		return
	}

	item, err := h.savedPostService.Get(userID, savedID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSavedPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrSavedPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, item)
}

// Unsave 取消收藏
// DELETE /api/v1/save_posts/:id
func (h *SavedPostHandler) Unsave(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	savedID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的收藏ID")
		return
	}

	if err := h.savedPostService.Unsave(userID, savedID); err != nil {
		switch {
		case errors.Is(err, service.ErrSavedPostNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrSavedPermission):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已取消收藏", nil)
}

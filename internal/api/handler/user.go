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

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile 获取当前用户信息
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// GetByUsername 获取用户公开主页
// GET /api/v1/users/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	info, err := h.userService.GetProfileByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// UpdateProfile 更新用户信息
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "更新成功", info)
}

// UpdateAvatar 更新头像 URL
// PUT /api/v1/user/avatar
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateAvatar(c.Request.Context(), userID, req.ImgURL)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "头像更新成功", info)
}

// UploadAvatar 上传头像文件
// POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		response.ParamError(c, "请选择头像文件")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	info, err := h.userService.UploadAvatar(c.Request.Context(), userID, file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedImage) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "头像上传成功", info)
}

// Deactivate 注销账号
// DELETE /api/v1/user
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	if err := h.userService.Deactivate(userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "账号已注销", nil)
}

// Search 搜索用户
// GET /api/v1/users/search?q=xxx
func (h *UserHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, err := h.userService.Search(c.Query("q"), limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/petguard/petguard_go_server/internal/pkg/response"
	"github.com/petguard/petguard_go_server/internal/service"
)

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
	}
}

// SignImageUpload 签发图片上传 URL
// GET /api/v1/upload/sign?filename=xxx.jpg
func (h *UploadHandler) SignImageUpload(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		response.ParamError(c, "缺少文件名")
		return
	}

	resp, err := h.uploadService.SignImageUpload(filename)
	if err != nil {
		if errors.Is(err, service.ErrInvalidExtension) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}

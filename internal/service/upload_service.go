package service

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/petguard/petguard_go_server/config"
	"github.com/petguard/petguard_go_server/internal/model/dto"
	"github.com/petguard/petguard_go_server/internal/pkg/oss"
)

var ErrInvalidExtension = errors.New("不支持的文件扩展名")

// UploadService 签发预签名上传 URL，前端拿到后直传 OSS
type UploadService struct {
	ossClient *oss.Client
	cfg       *config.Config
}

func NewUploadService(ossClient *oss.Client, cfg *config.Config) *UploadService {
	return &UploadService{ossClient: ossClient, cfg: cfg}
}

// SignImageUpload 为图片上传签发预签名 URL
func (s *UploadService) SignImageUpload(filename string) (*dto.UploadURLResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !s.extensionAllowed(ext) {
		return nil, ErrInvalidExtension
	}

	uploadURL, fileURL, err := s.ossClient.SignUploadURL(ext, s.cfg.Upload.SignExpireSeconds)
	if err != nil {
		return nil, err
	}

	return &dto.UploadURLResponse{
		UploadURL: uploadURL,
		FileURL:   fileURL,
	}, nil
}

func (s *UploadService) extensionAllowed(ext string) bool {
	if ext == "" {
		return false
	}
	for _, allowed := range s.cfg.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

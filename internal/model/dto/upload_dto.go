package dto

// UploadURLResponse 预签名上传 URL 响应
type UploadURLResponse struct {
	UploadURL string `json:"uploadURL"`
	FileURL   string `json:"fileURL"`
}

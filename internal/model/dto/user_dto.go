package dto

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=50"`
	LastName *string `json:"last_name,omitempty" binding:"omitempty,max=50"`
	Bio      *string `json:"bio,omitempty" binding:"omitempty,max=500"`
}

// UpdateAvatarRequest 更新头像请求
type UpdateAvatarRequest struct {
	ImgURL string `json:"imgUrl" binding:"required,max=500"`
}

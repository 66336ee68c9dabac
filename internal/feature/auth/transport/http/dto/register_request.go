package dto

// RegisterReq は/api/auth/registerのマルチパートフォームを表します。
// プロフィール画像（profile）は任意のため、ハンドラーで別途読み取ります。
type RegisterReq struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

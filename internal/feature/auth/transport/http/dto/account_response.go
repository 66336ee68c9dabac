package dto

import "event_backend/internal/feature/auth/domain/entity"

// AccountResponse はアカウントの公開表現です。パスワードハッシュのフィールドは持ちません。
type AccountResponse struct {
	ID             uint    `json:"_id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
}

// LoginResponse はログイン成功時の応答です。
type LoginResponse struct {
	AccountResponse
	Token string `json:"token"`
}

// NewAccountResponse はエンティティから公開表現を生成します。
func NewAccountResponse(a *entity.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		Username:       a.Username,
		Email:          a.Email,
		ProfilePicture: a.ProfilePicture,
	}
}

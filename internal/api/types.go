// Package api はHTTPトランスポート層で共有されるレスポンス型を定義します。
package api

// ErrorResponse はすべての失敗レスポンスの形式です。
// Error には診断用の詳細（500の場合は内部エラーのメッセージ）が入ります。
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse は本文を持たない成功レスポンスです。
type MessageResponse struct {
	Message string `json:"message"`
}

// LogoutResponse はログアウトの応答です。クライアント側でトークンを破棄させるため token は常に null です。
type LogoutResponse struct {
	Message string  `json:"message"`
	Token   *string `json:"token"`
}

// ServerError は内部エラーの応答を生成します。診断用に元のエラーメッセージを含めます。
func ServerError(err error) ErrorResponse {
	return ErrorResponse{Message: "Server error", Error: err.Error()}
}

// BadRequest は入力不備の応答を生成します。
func BadRequest(message string, err error) ErrorResponse {
	res := ErrorResponse{Message: message}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import openapi_types "github.com/oapi-codegen/runtime/types"

// LoginReq は/api/auth/loginエンドポイントのリクエストボディを表します。
// Email は openapi の email 形式としてデコード時に検証されます。
type LoginReq struct {
	Email    openapi_types.Email `json:"email" binding:"required"`
	Password string              `json:"password" binding:"required"`
}

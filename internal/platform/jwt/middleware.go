package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"event_backend/internal/api"
)

// ContextAccountID は認証済みアカウントIDを gin.Context に格納するキーです。
const ContextAccountID = "accountID"

// AuthRequired は Bearer トークンを検証し、認証済みのリクエストのみを通すミドルウェアを返します。
// シークレットは起動時に注入され、ミドルウェアは環境変数を参照しません。
// 失効リストは持たないため、トークンは有効期限まで有効です。
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if len(key) == 0 {
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Server misconfigured"})
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			// HMAC以外のアルゴリズム（none を含む）は拒否
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid token"})
			return
		}
		// JWTの数値は float64 としてデコードされる
		id, ok := claims[ClaimAccountID].(float64)
		if !ok || id <= 0 || id != float64(uint(id)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Invalid token"})
			return
		}

		c.Set(ContextAccountID, uint(id))
		c.Next()
	}
}

// AccountID は AuthRequired が設定したアカウントIDを取り出します。
func AccountID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextAccountID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

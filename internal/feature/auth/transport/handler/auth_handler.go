// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"event_backend/internal/api"
	"event_backend/internal/feature/auth/domain"
	"event_backend/internal/feature/auth/domain/entity"
	"event_backend/internal/feature/auth/transport/http/dto"
	mediadomain "event_backend/internal/feature/media/domain"
	mediaentity "event_backend/internal/feature/media/domain/entity"
	jwtmw "event_backend/internal/platform/jwt"
)

// DefaultMaxUploadBytes はプロフィール画像1件あたりの既定の上限サイズです。
const DefaultMaxUploadBytes int64 = 10 << 20

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register はアカウントを登録します。profile が nil の場合はプロフィール画像なしで登録します。
	Register(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error)
	// Login はアカウントを認証し、成功時にセッショントークンを返します。
	Login(ctx context.Context, email, password string) (*entity.Account, string, error)
	// DeleteAccount はアカウントとプロフィール画像を削除します。
	DeleteAccount(ctx context.Context, id uint) error
}

// AuthHandler はアカウント操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth           AuthUsecase
	maxUploadBytes int64
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// maxUploadBytes が0以下の場合は DefaultMaxUploadBytes を使用します。
func NewAuthHandler(auth AuthUsecase, maxUploadBytes int64) *AuthHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &AuthHandler{auth: auth, maxUploadBytes: maxUploadBytes}
}

// Register はアカウント登録APIエンドポイントを処理します。
// - マルチパートフォーム（username, email, password, 任意の profile）をバインド
// - 入力不備・重複時は400を返却
// - 成功時は201と公開表現を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.BadRequest("Invalid request", err))
		return
	}

	profile, err := h.readProfile(c)
	if err != nil {
		slog.Warn("register profile rejected", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.BadRequest("Invalid profile picture", err))
		return
	}

	account, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password, profile)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountAlreadyExists):
			slog.Warn("register conflict", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "User already exists"})
		case errors.Is(err, mediadomain.ErrUploadFailed):
			slog.Error("profile picture upload failed", "error", err, "email", req.Email)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Upload failed", Error: err.Error()})
		default:
			slog.Error("register failed", "error", err, "email", req.Email)
			c.JSON(http.StatusInternalServerError, api.ServerError(err))
		}
		return
	}

	slog.Info("account registered", "account_id", account.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewAccountResponse(account))
}

// readProfile は任意のプロフィール画像を読み込みます。未指定・空ファイルの場合は nil を返します。
func (h *AuthHandler) readProfile(c *gin.Context) (*mediaentity.Upload, error) {
	fh, err := c.FormFile("profile")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size == 0 {
		return nil, nil
	}
	if fh.Size > h.maxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", h.maxUploadBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &mediaentity.Upload{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Filename:    fh.Filename,
	}, nil
}

// Login はログインAPIエンドポイントを処理します。
// - アカウントが存在しない場合・パスワード不一致の場合は400を返却
// - 成功時は公開表現とトークンを200で返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.BadRequest("Invalid request", err))
		return
	}

	email := string(req.Email)
	account, token, err := h.auth.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAccountNotFound):
			slog.Warn("login failed", "reason", "not_found", "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "User not found"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			slog.Warn("login failed", "reason", "invalid_credentials", "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Invalid credentials"})
		default:
			slog.Error("login failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.ServerError(err))
		}
		return
	}

	slog.Info("account login successful", "account_id", account.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginResponse{AccountResponse: dto.NewAccountResponse(account), Token: token})
}

// Logout はサーバー側で状態を持たないログアウトを処理します。
// トークンは失効させないため、クライアントが破棄する必要があります。
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, api.LogoutResponse{Message: "User logged out successfully"})
}

// Delete はアカウント削除APIエンドポイントを処理します。AuthRequired の後段で使用します。
// - /api/auth/delete: 認証中のアカウント自身を削除
// - /api/auth/delete/:id: :id が認証中のアカウントと一致する場合のみ削除（不一致は403）
func (h *AuthHandler) Delete(c *gin.Context) {
	callerID, ok := jwtmw.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "Missing bearer token"})
		return
	}

	targetID := callerID
	if raw := c.Param("id"); raw != "" {
		var id uint
		err := runtime.BindStyledParameterWithOptions("simple", "id", raw, &id, runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, api.BadRequest("Invalid account id", err))
			return
		}
		if id != callerID {
			slog.Warn("account deletion forbidden", "caller_id", callerID, "target_id", id, "remote_addr", c.ClientIP())
			c.JSON(http.StatusForbidden, api.ErrorResponse{Message: "Forbidden"})
			return
		}
		targetID = id
	}

	if err := h.auth.DeleteAccount(c.Request.Context(), targetID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "User not found"})
			return
		}
		slog.Error("account deletion failed", "error", err, "account_id", targetID)
		c.JSON(http.StatusInternalServerError, api.ServerError(err))
		return
	}

	slog.Info("account deleted", "account_id", targetID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "User deleted successfully"})
}

// Package handler はeventsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"event_backend/internal/api"
	"event_backend/internal/feature/events/domain"
	"event_backend/internal/feature/events/domain/entity"
	"event_backend/internal/feature/events/transport/http/dto"
	"event_backend/internal/feature/events/usecase"
	mediadomain "event_backend/internal/feature/media/domain"
	mediaentity "event_backend/internal/feature/media/domain/entity"
)

// DefaultMaxUploadBytes は添付ファイル1件あたりの既定の上限サイズです。
const DefaultMaxUploadBytes int64 = 10 << 20

// filesField は添付ファイルのフォームフィールド名です。
const filesField = "files"

// dateLayouts は受け付ける日付の書式です。
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// EventUsecase はイベント操作のユースケースを定義します。
type EventUsecase interface {
	CreateEvent(ctx context.Context, in usecase.CreateEventInput) (*entity.Event, error)
	ListEvents(ctx context.Context) ([]entity.EventView, error)
	ListEventsByCreator(ctx context.Context, email string) ([]entity.EventView, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// EventHandler はイベント関連のHTTPリクエストを処理します。
type EventHandler struct {
	events         EventUsecase
	uploadDir      string
	maxUploadBytes int64
}

// NewEventHandler はEventHandlerの新しいインスタンスを生成します。
// uploadDir が空の場合はOSの一時ディレクトリに添付ファイルをステージングします。
func NewEventHandler(events EventUsecase, uploadDir string, maxUploadBytes int64) *EventHandler {
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &EventHandler{events: events, uploadDir: uploadDir, maxUploadBytes: maxUploadBytes}
}

// CreateEvent はイベント作成APIエンドポイントを処理します。
// - マルチパートフォームと最大5件の添付ファイル（files）を受け付けます
// - 添付ファイルはディスクにステージングし、リクエスト終了時に必ず削除します
// - 作成者が存在しない場合は404を返却
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("create event validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.BadRequest("Invalid request", err))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.BadRequest("Invalid date", err))
		return
	}

	headers, err := formFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.BadRequest("Invalid request", err))
		return
	}
	if len(headers) > domain.MaxAttachments {
		slog.Warn("too many attachments", "count", len(headers), "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: fmt.Sprintf("At most %d files are allowed", domain.MaxAttachments)})
		return
	}

	staged, err := h.stage(c, headers)
	defer removeStaged(staged)
	if err != nil {
		slog.Warn("attachment staging failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.BadRequest("Invalid attachment", err))
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), usecase.CreateEventInput{
		CreatorEmail: req.Email,
		Name:         req.Name,
		Description:  req.Description,
		Date:         date,
		Location:     req.Location,
		Category:     req.Category,
		MaxAttendees: req.MaxAttendees,
		Files:        staged,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCreatorNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "User not found"})
		case errors.Is(err, domain.ErrTooManyAttachments), errors.Is(err, domain.ErrInvalidEvent), errors.Is(err, mediadomain.ErrEmptyUpload):
			c.JSON(http.StatusBadRequest, api.BadRequest("Invalid request", err))
		case errors.Is(err, mediadomain.ErrUploadFailed):
			slog.Error("attachment upload failed", "error", err, "creator", req.Email)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "Upload failed", Error: err.Error()})
		default:
			slog.Error("create event failed", "error", err, "creator", req.Email)
			c.JSON(http.StatusInternalServerError, api.ServerError(err))
		}
		return
	}

	slog.Info("event created", "event_id", event.EventID, "attachments", len(event.DocumentURLs))
	c.JSON(http.StatusCreated, dto.NewEventResponse(event, nil))
}

// GetEvents は全イベントの一覧を返します。
func (h *EventHandler) GetEvents(c *gin.Context) {
	views, err := h.events.ListEvents(c.Request.Context())
	if err != nil {
		slog.Error("list events failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ServerError(err))
		return
	}
	c.JSON(http.StatusOK, dto.NewEventListResponse(views))
}

// GetEventsByEmail は作成者のメールアドレスでイベントを絞り込みます。
// 本文が不正な場合も email の欠落として400を返します。
func (h *EventHandler) GetEventsByEmail(c *gin.Context) {
	var req dto.EventsByEmailReq
	// 不正なボディはメール未指定として扱い、下の ErrEmailRequired で400を返します。
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("events by email bind failed", "error", err, "remote_addr", c.ClientIP())
	}

	views, err := h.events.ListEventsByCreator(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailRequired):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "Email parameter is required"})
		case errors.Is(err, domain.ErrCreatorNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "User not found"})
		default:
			slog.Error("list events by creator failed", "error", err)
			c.JSON(http.StatusInternalServerError, api.ServerError(err))
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewEventListResponse(views))
}

// DeleteEvent は event_id でイベントを削除します。添付ファイルは削除しません。
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	var eventID string
	err := runtime.BindStyledParameterWithOptions("simple", "event_id", c.Param("event_id"), &eventID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, api.BadRequest("Invalid event id", err))
		return
	}

	if err := h.events.DeleteEvent(c.Request.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "Event not found"})
			return
		}
		slog.Error("delete event failed", "error", err, "event_id", eventID)
		c.JSON(http.StatusInternalServerError, api.ServerError(err))
		return
	}

	slog.Info("event deleted", "event_id", eventID)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Event deleted successfully"})
}

// formFiles はマルチパートフォームの添付ファイルを返します。マルチパートでない場合は空です。
func formFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return form.File[filesField], nil
}

// stage は添付ファイルを uploadDir に保存します。
// エラー時もそれまでに保存したファイルを返すため、呼び出し側で削除できます。
func (h *EventHandler) stage(c *gin.Context, headers []*multipart.FileHeader) ([]mediaentity.StagedFile, error) {
	staged := make([]mediaentity.StagedFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > h.maxUploadBytes {
			return staged, fmt.Errorf("%s exceeds %d bytes", fh.Filename, h.maxUploadBytes)
		}
		dst := filepath.Join(h.uploadDir, "event-upload-"+uuid.NewString())
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			return staged, fmt.Errorf("stage %s: %w", fh.Filename, err)
		}
		staged = append(staged, mediaentity.StagedFile{
			Path:        dst,
			ContentType: fh.Header.Get("Content-Type"),
			Filename:    fh.Filename,
		})
	}
	return staged, nil
}

// removeStaged はステージングしたファイルを削除します。
func removeStaged(files []mediaentity.StagedFile) {
	for _, f := range files {
		if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove staged file", "path", f.Path, "error", err)
		}
	}
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", s)
}

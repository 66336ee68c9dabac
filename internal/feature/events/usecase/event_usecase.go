// Package usecase はeventsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"event_backend/internal/feature/events/domain"
	"event_backend/internal/feature/events/domain/entity"
	mediaentity "event_backend/internal/feature/media/domain/entity"
)

// EventRepository はイベントエンティティの永続化層を抽象化します。
type EventRepository interface {
	// Create は新しいイベントを永続化します。
	Create(ctx context.Context, event *entity.Event) error

	// ListAll は全イベントを永続化順に返します。
	ListAll(ctx context.Context) ([]entity.Event, error)

	// ListByCreator は CreatedBy が email に一致するイベントを永続化順に返します。
	ListByCreator(ctx context.Context, email string) ([]entity.Event, error)

	// DeleteByEventID は event_id でイベントを削除します。
	// 存在しない場合、domain.ErrEventNotFound を返します。
	DeleteByEventID(ctx context.Context, eventID string) error
}

// AccountDirectory は作成者アカウントの参照を抽象化します。authフィーチャーのリポジトリが実装します。
type AccountDirectory interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UsernamesByEmails(ctx context.Context, emails []string) (map[string]string, error)
}

// MediaUploader は添付ファイルの保存先（メディアアップロードゲートウェイ）を抽象化します。
type MediaUploader interface {
	UploadFiles(ctx context.Context, folder string, files []mediaentity.StagedFile) ([]string, error)
	Commit(ctx context.Context, urls ...string) error
}

// CreateEventInput はイベント作成の入力です。
type CreateEventInput struct {
	CreatorEmail string
	Name         string
	Description  string
	Date         time.Time
	Location     string
	Category     string
	MaxAttendees int
	Files        []mediaentity.StagedFile
}

// validate は必須項目を検証します。
func (in CreateEventInput) validate() error {
	fields := []struct{ name, value string }{
		{"email", in.CreatorEmail},
		{"name", in.Name},
		{"description", in.Description},
		{"location", in.Location},
		{"category", in.Category},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrInvalidEvent, strings.Join(missing, ", "))
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: missing date", domain.ErrInvalidEvent)
	}
	if in.MaxAttendees <= 0 {
		return fmt.Errorf("%w: max attendees must be positive", domain.ErrInvalidEvent)
	}
	return nil
}

// eventUsecase はイベントの作成・一覧・削除のビジネスロジックを実装します。
type eventUsecase struct {
	events   EventRepository
	accounts AccountDirectory
	media    MediaUploader
	newID    func() string
}

// NewEventUsecase はeventUsecaseの新しいインスタンスを生成します。
func NewEventUsecase(events EventRepository, accounts AccountDirectory, media MediaUploader) *eventUsecase {
	return &eventUsecase{
		events:   events,
		accounts: accounts,
		media:    media,
		newID:    uuid.NewString,
	}
}

// CreateEvent はイベントを作成します。
//   - 作成者が存在しない場合はアップロード前に domain.ErrCreatorNotFound を返します
//   - 添付ファイルは順番に1件ずつアップロードし、URLの順序は入力順と一致します
//   - 1件でも失敗した場合はレコードを書き込みません
func (u *eventUsecase) CreateEvent(ctx context.Context, in CreateEventInput) (*entity.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	exists, err := u.accounts.ExistsByEmail(ctx, in.CreatorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}
	if !exists {
		return nil, domain.ErrCreatorNotFound
	}

	if len(in.Files) > domain.MaxAttachments {
		return nil, fmt.Errorf("%w: got %d, max %d", domain.ErrTooManyAttachments, len(in.Files), domain.MaxAttachments)
	}

	urls := []string{}
	if len(in.Files) > 0 {
		urls, err = u.media.UploadFiles(ctx, mediaentity.FolderEventImages, in.Files)
		if err != nil {
			return nil, fmt.Errorf("failed to upload attachments: %w", err)
		}
	}

	event := &entity.Event{
		EventID:      u.newID(),
		Name:         in.Name,
		Description:  in.Description,
		Date:         in.Date,
		Location:     in.Location,
		Category:     in.Category,
		MaxAttendees: in.MaxAttendees,
		Attendees:    []uint{},
		CreatedBy:    in.CreatorEmail,
		DocumentURLs: urls,
	}
	if err := u.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := u.media.Commit(ctx, urls...); err != nil {
		slog.Warn("failed to commit event attachments", "event_id", event.EventID, "error", err)
	}
	return event, nil
}

// ListEvents は全イベントを作成者情報付きで返します。
func (u *eventUsecase) ListEvents(ctx context.Context) ([]entity.EventView, error) {
	events, err := u.events.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return u.withCreators(ctx, events)
}

// ListEventsByCreator は指定したメールアドレスのアカウントが作成したイベントを返します。
func (u *eventUsecase) ListEventsByCreator(ctx context.Context, email string) ([]entity.EventView, error) {
	if strings.TrimSpace(email) == "" {
		return nil, domain.ErrEmailRequired
	}

	exists, err := u.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}
	if !exists {
		return nil, domain.ErrCreatorNotFound
	}

	events, err := u.events.ListByCreator(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by creator: %w", err)
	}
	return u.withCreators(ctx, events)
}

// DeleteEvent は event_id でイベントを削除します。添付ファイルはストレージに残します。
func (u *eventUsecase) DeleteEvent(ctx context.Context, eventID string) error {
	if err := u.events.DeleteByEventID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// withCreators は作成者のユーザー名を読み取り専用で結合します。
func (u *eventUsecase) withCreators(ctx context.Context, events []entity.Event) ([]entity.EventView, error) {
	out := make([]entity.EventView, 0, len(events))
	if len(events) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(events))
	emails := make([]string, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.CreatedBy]; ok {
			continue
		}
		seen[e.CreatedBy] = struct{}{}
		emails = append(emails, e.CreatedBy)
	}

	names, err := u.accounts.UsernamesByEmails(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve creators: %w", err)
	}

	for _, e := range events {
		view := entity.EventView{Event: e}
		if name, ok := names[e.CreatedBy]; ok {
			view.Creator = &entity.Creator{Email: e.CreatedBy, Username: name}
		}
		out = append(out, view)
	}
	return out, nil
}

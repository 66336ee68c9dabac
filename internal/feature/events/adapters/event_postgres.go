// Package adapters はeventsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"event_backend/internal/feature/events/domain"
	"event_backend/internal/feature/events/domain/entity"
	"event_backend/internal/feature/events/usecase"
)

// eventPostgres はEventRepositoryインターフェースのGORM実装です。
type eventPostgres struct {
	db *gorm.DB
}

var _ usecase.EventRepository = (*eventPostgres)(nil)

// NewEventRepository は指定されたgorm.DB接続でeventPostgresの新しいインスタンスを生成します。
func NewEventRepository(db *gorm.DB) *eventPostgres {
	return &eventPostgres{db: db}
}

// Create はイベントをデータベースに追加します。
func (r *eventPostgres) Create(ctx context.Context, e *entity.Event) error {
	if e.Attendees == nil {
		e.Attendees = []uint{}
	}
	if e.DocumentURLs == nil {
		e.DocumentURLs = []string{}
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert event %s: %w", e.EventID, err)
	}
	return nil
}

// ListAll は全イベントを永続化順（行ID昇順）に返します。
func (r *eventPostgres) ListAll(ctx context.Context) ([]entity.Event, error) {
	var out []entity.Event
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCreator は作成者のメールアドレスに一致するイベントを永続化順に返します。
func (r *eventPostgres) ListByCreator(ctx context.Context, email string) ([]entity.Event, error) {
	var out []entity.Event
	err := r.db.WithContext(ctx).
		Where("created_by = ?", email).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByEventID は event_id でイベントを削除します。
// 削除対象がない場合、domain.ErrEventNotFoundを返します。
func (r *eventPostgres) DeleteByEventID(ctx context.Context, eventID string) error {
	res := r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&entity.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Package adapters はmediaフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"event_backend/internal/feature/media/domain/entity"
	"event_backend/internal/feature/media/usecase"
)

// intentPostgres はIntentRepositoryインターフェースのGORM実装です。
type intentPostgres struct {
	db *gorm.DB
}

// intentPostgresがIntentRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.IntentRepository = (*intentPostgres)(nil)

// NewIntentRepository は指定されたgorm.DB接続でintentPostgresの新しいインスタンスを生成します。
func NewIntentRepository(db *gorm.DB) *intentPostgres {
	return &intentPostgres{db: db}
}

// Create は先行記録を追加します。
func (r *intentPostgres) Create(ctx context.Context, intent *entity.UploadIntent) error {
	return r.db.WithContext(ctx).Create(intent).Error
}

// DeleteByURLs は指定URLの先行記録を削除します。該当がなくてもエラーにしません。
func (r *intentPostgres) DeleteByURLs(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("url IN ?", urls).Delete(&entity.UploadIntent{}).Error
}

// ListOlderThan は cutoff より前に作成された先行記録を古い順に最大 limit 件返します。
func (r *intentPostgres) ListOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]entity.UploadIntent, error) {
	var out []entity.UploadIntent
	q := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete はIDで先行記録を削除します。
func (r *intentPostgres) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.UploadIntent{}, id).Error
}

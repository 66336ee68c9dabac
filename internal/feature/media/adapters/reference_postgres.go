package adapters

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"event_backend/internal/feature/media/usecase"
)

// likeEscaper は LIKE のワイルドカードをリテラルとして扱うためのエスケープです。
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// referencePostgres はアカウントとイベントのテーブルを見て、URLが参照中かを判定します。
type referencePostgres struct {
	db *gorm.DB
}

var _ usecase.ReferenceChecker = (*referencePostgres)(nil)

// NewReferenceChecker は指定されたgorm.DB接続でreferencePostgresを生成します。
func NewReferenceChecker(db *gorm.DB) *referencePostgres {
	return &referencePostgres{db: db}
}

// IsReferenced はプロフィール画像またはイベント添付としてURLが保存されていれば true を返します。
func (r *referencePostgres) IsReferenced(ctx context.Context, url string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Table("accounts").
		Where("profile_picture = ?", url).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	// document_urls はJSON配列として保存されるため、エンコード済みの要素で部分一致させます。
	encoded, err := json.Marshal(url)
	if err != nil {
		return false, err
	}
	pattern := "%" + likeEscaper.Replace(string(encoded)) + "%"
	if err := r.db.WithContext(ctx).Table("events").
		Where(`document_urls LIKE ? ESCAPE '\'`, pattern).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

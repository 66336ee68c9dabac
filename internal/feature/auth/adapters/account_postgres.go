// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"event_backend/internal/feature/auth/domain"
	"event_backend/internal/feature/auth/domain/entity"
	"event_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のエラーコードです。
const pgUniqueViolation = "23505"

// accountPostgres はAccountRepositoryインターフェースのGORM実装です。
// eventsフィーチャーからは作成者の存在確認とユーザー名の解決にも使われます。
type accountPostgres struct {
	db *gorm.DB
}

// accountPostgresがAccountRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.AccountRepository = (*accountPostgres)(nil)

// NewAccountRepository は指定されたgorm.DB接続でaccountPostgresの新しいインスタンスを生成します。
func NewAccountRepository(db *gorm.DB) *accountPostgres {
	return &accountPostgres{db: db}
}

// isUniqueViolation は一意制約違反かどうかを判定します。
// TranslateError 有効時は gorm.ErrDuplicatedKey、無効時は pgconn.PgError で判定します。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Create はアカウントをデータベースに追加します。
// メールアドレスまたはユーザー名が重複する場合、domain.ErrAccountAlreadyExistsを返します。
func (r *accountPostgres) Create(ctx context.Context, a *entity.Account) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでアカウントを取得します。
// 存在しない場合、domain.ErrAccountNotFoundを返します。
func (r *accountPostgres) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByID はIDでアカウントを取得します。
// 存在しない場合、domain.ErrAccountNotFoundを返します。
func (r *accountPostgres) FindByID(ctx context.Context, id uint) (*entity.Account, error) {
	var a entity.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Delete はIDでアカウントを削除します。
// 削除対象がない場合、domain.ErrAccountNotFoundを返します。
func (r *accountPostgres) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Account{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// ExistsByEmail はメールアドレスのアカウントが存在するかを返します。
func (r *accountPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entity.Account{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// UsernamesByEmails はメールアドレスからユーザー名への対応表を返します。
// 存在しないメールアドレスは結果に含まれません。
func (r *accountPostgres) UsernamesByEmails(ctx context.Context, emails []string) (map[string]string, error) {
	out := make(map[string]string, len(emails))
	if len(emails) == 0 {
		return out, nil
	}

	var rows []struct {
		Email    string
		Username string
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Select("email", "username").
		Where("email IN ?", emails).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Email] = row.Username
	}
	return out, nil
}

// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"event_backend/internal/feature/auth/domain"
	"event_backend/internal/feature/auth/domain/entity"
	mediaentity "event_backend/internal/feature/media/domain/entity"
)

// dummyHash はアカウントが存在しない場合にも bcrypt 比較を実行するためのハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AccountRepository はアカウントエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type AccountRepository interface {
	// Create は新しいアカウントを永続化します。
	// メールアドレスまたはユーザー名が重複する場合、domain.ErrAccountAlreadyExists を返します。
	Create(ctx context.Context, account *entity.Account) error

	// FindByEmail はメールアドレスでアカウントを取得します。
	// 存在しない場合、domain.ErrAccountNotFound を返します。
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByID はIDでアカウントを取得します。
	// 存在しない場合、domain.ErrAccountNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.Account, error)

	// Delete はIDでアカウントを削除します。
	// 存在しない場合、domain.ErrAccountNotFound を返します。
	Delete(ctx context.Context, id uint) error
}

// TokenGenerator はセッショントークン生成のインターフェースを定義します。
type TokenGenerator interface {
	GenerateToken(accountID uint) (string, error)
}

// ProfileMedia はプロフィール画像の保存先（メディアアップロードゲートウェイ）を抽象化します。
type ProfileMedia interface {
	UploadBytes(ctx context.Context, folder string, up mediaentity.Upload) (string, error)
	Delete(ctx context.Context, folder, url string) error
	Commit(ctx context.Context, urls ...string) error
}

// authUsecase はアカウント登録・認証・削除のビジネスロジックを実装します。
type authUsecase struct {
	accounts AccountRepository
	tokens   TokenGenerator
	media    ProfileMedia
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// トークン署名シークレットは TokenGenerator の構築時に注入されます。
func NewAuthUsecase(accounts AccountRepository, tokens TokenGenerator, media ProfileMedia) *authUsecase {
	return &authUsecase{
		accounts: accounts,
		tokens:   tokens,
		media:    media,
	}
}

// Register はアカウントを登録します。
//   - メールアドレスの重複を最初に確認します（重複時は domain.ErrAccountAlreadyExists）
//   - パスワードはソルト付き bcrypt ハッシュとしてのみ保存します
//   - プロフィール画像は任意です。指定された場合はレコード作成前にアップロードします
func (u *authUsecase) Register(ctx context.Context, username, email, password string, profile *mediaentity.Upload) (*entity.Account, error) {
	if _, err := u.accounts.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrAccountAlreadyExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entity.Account{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}

	if profile != nil && len(profile.Data) > 0 {
		url, err := u.media.UploadBytes(ctx, mediaentity.FolderProfilePictures, *profile)
		if err != nil {
			return nil, fmt.Errorf("failed to upload profile picture: %w", err)
		}
		account.ProfilePicture = &url
	}

	if err := u.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if account.ProfilePicture != nil {
		if err := u.media.Commit(ctx, *account.ProfilePicture); err != nil {
			// 先行記録が残るだけなので登録自体は成功として扱う
			slog.Warn("failed to commit profile picture", "account_id", account.ID, "error", err)
		}
	}
	return account, nil
}

// Login はアカウントを認証し、成功時にアカウントと署名済みトークンを返します。
// タイミング攻撃を防止するため、アカウントが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.Account, string, error) {
	account, err := u.accounts.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}

	passwordHash := dummyHash
	if account != nil {
		passwordHash = account.Password
	}
	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if account == nil {
		return nil, "", domain.ErrAccountNotFound
	}
	if compareErr != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := u.tokens.GenerateToken(account.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return account, token, nil
}

// DeleteAccount はアカウントを削除します。
// プロフィール画像がある場合は先にストレージから削除します（失敗してもログに残して続行）。
// 画像削除とレコード削除はトランザクションではないため、レコード削除に失敗すると画像だけが失われます。
func (u *authUsecase) DeleteAccount(ctx context.Context, id uint) error {
	account, err := u.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if account.ProfilePicture != nil && *account.ProfilePicture != "" {
		if err := u.media.Delete(ctx, mediaentity.FolderProfilePictures, *account.ProfilePicture); err != nil {
			slog.Warn("failed to delete profile picture", "account_id", id, "url", *account.ProfilePicture, "error", err)
		}
	}

	if err := u.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

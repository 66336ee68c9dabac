package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"event_backend/internal/platform/config"
)

const (
	// EnvKeyJWTSecret は署名シークレットを読み込む環境変数名です。
	EnvKeyJWTSecret = "JWT_SECRET"
	// EnvKeyJWTTTL はトークン有効期間を読み込む環境変数名です。
	EnvKeyJWTTTL = "JWT_TTL"

	// DefaultExpiration はセッショントークンの既定有効期間（30日）です。
	DefaultExpiration = 30 * 24 * time.Hour

	// ClaimAccountID はアカウントIDを格納するクレーム名です。
	ClaimAccountID = "id"
)

// ErrMissingSecret は署名シークレットが設定されていない場合に返されます。
var ErrMissingSecret = errors.New("jwt secret is not configured")

// Config はトークン署名の設定です。プロセス起動時に一度だけ読み込み、以降は読み取り専用で扱います。
type Config struct {
	Secret     string
	Expiration time.Duration
}

// LoadConfig は環境変数からJWT設定を読み込みます。シークレットが空の場合はエラーを返します。
func LoadConfig() (Config, error) {
	cfg := Config{
		Secret:     config.GetEnv(EnvKeyJWTSecret, ""),
		Expiration: config.GetEnvDuration(EnvKeyJWTTTL, DefaultExpiration),
	}
	if cfg.Secret == "" {
		return Config{}, ErrMissingSecret
	}
	return cfg, nil
}

// Generator はセッショントークンの生成を行います。
type Generator interface {
	// GenerateToken は指定アカウントの署名済みトークンを生成します。
	GenerateToken(accountID uint) (string, error)
}

type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator は指定されたシークレットと有効期間でジェネレーターを生成します。
// expiration が0以下の場合は DefaultExpiration を使用します。
func NewGenerator(secret string, expiration time.Duration) *generator {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken は {id, iat, exp} を持つHS256署名トークンを生成します。
func (g *generator) GenerateToken(accountID uint) (string, error) {
	now := g.now()
	claims := jwt.MapClaims{
		ClaimAccountID: accountID,
		"iat":          now.Unix(),
		"exp":          now.Add(g.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Package router はHTTPルーティングを構成します。
package router

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "event_backend/internal/feature/auth/transport/handler"
	eventhandler "event_backend/internal/feature/events/transport/handler"
	"event_backend/internal/platform/http/handler"
	jwtmw "event_backend/internal/platform/jwt"
	"event_backend/internal/platform/realtime"
)

// Options はルーターの横断的な設定です。
type Options struct {
	JWTSecret       string
	CORSOrigins     []string
	ReadinessChecks map[string]handler.Check
}

// NewRouter はAPI・ヘルスチェック・WebSocketのルートを登録したエンジンを生成します。
func NewRouter(authHandler *authhandler.AuthHandler, events *eventhandler.EventHandler,
	hub *realtime.Hub, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	// 依存サービス（DB・ストレージ・Redis）の疎通確認
	r.GET("/readyz", handler.Readiness(0, opts.ReadinessChecks))

	auth := r.Group("/api/auth")
	{
		// 認証不要
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)

		// 認証必須: 自分自身のアカウントのみ削除できる
		owner := auth.Group("", jwtmw.AuthRequired(opts.JWTSecret))
		owner.DELETE("/delete", authHandler.Delete)
		owner.DELETE("/delete/:id", authHandler.Delete)
	}

	ev := r.Group("/api/events")
	{
		ev.POST("/createEvent", events.CreateEvent)
		ev.GET("/getEvents", events.GetEvents)
		ev.POST("/getEventsByEmail", events.GetEventsByEmail)
		ev.DELETE("/deleteEvent/:event_id", events.DeleteEvent)
	}

	// 接続・切断のログのみ
	r.GET("/socket", hub.Handle)

	return r
}

// corsConfig は許可オリジンの一覧からCORS設定を生成します。"*" を含む場合は全オリジンを許可します。
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

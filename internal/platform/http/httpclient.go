package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient はオブジェクトストレージなど外部サービス呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConns / MaxIdleConnsPerHost: 同一エンドポイントへの連続アップロードで接続を再利用するため
//   - ResponseHeaderTimeout: ボディ送信完了後、応答ヘッダーを待つ最大時間
//   - ExpectContinueTimeout: "Expect: 100-continue" 付きPUTでサーバー応答を待つ時間
//   - Client.Timeout: リクエスト全体のタイムアウト（呼び出し元から渡される）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがなく、応答しないアップロードがリクエストを無期限に占有するため、常にこのクライアントを使用すること
//   - timeout が0以下の場合はリクエスト全体のタイムアウトを設定しない（Transport側のタイムアウトのみ有効）
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	if timeout < 0 {
		timeout = 0
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

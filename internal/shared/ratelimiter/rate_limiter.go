package ratelimiter

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、外部ストレージへの削除呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	WaitIfNeeded()
}

// RateLimiter は、interval あたり limit 回までに操作の頻度を制限します。
// 複数のゴルーチンから同時に呼び出しても安全です。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	count     int
	lastReset time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewRateLimiter は新しい RateLimiter のインスタンスを生成します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// WaitIfNeeded はレートリミットの上限に達しているかを確認し、必要であれば次の区間まで待機します。
func (rl *RateLimiter) WaitIfNeeded() {
	if rl.limit <= 0 {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}

	rl.count++
	if rl.count > rl.limit {
		wait := rl.interval - now.Sub(rl.lastReset)
		if wait > 0 {
			slog.Info("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval, "wait", wait)
			rl.sleep(wait)
		}
		// リセット
		rl.count = 1
		rl.lastReset = rl.now()
	}
}

package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"event_backend/internal/shared/ratelimiter"
)

// sweepBatchSize は1回の一覧取得で読み込む先行記録の最大件数です。
const sweepBatchSize = 500

// ReferenceChecker はURLがドメインレコードから参照されているかを判定します。
type ReferenceChecker interface {
	IsReferenced(ctx context.Context, url string) (bool, error)
}

// SweepResult は1回の掃除の集計です。
// Kept は参照が残っていたため記録だけを削除した件数です。
// HasMore は処理できなかった先行記録が cutoff より前に残っていることを示します。
type SweepResult struct {
	Scanned int
	Deleted int
	Kept    int
	Failed  int
	HasMore bool
}

// Reconciler はドメインレコードに紐付かなかったアップロード済みオブジェクトを削除します。
// アップロード後・レコード永続化前の失敗で残った先行記録が対象です。
type Reconciler struct {
	storage     ObjectStorage
	intents     IntentRepository
	refs        ReferenceChecker
	rateLimiter ratelimiter.RateLimiterInterface
	now         func() time.Time
}

// NewReconciler は新しい Reconciler を作成します。
func NewReconciler(storage ObjectStorage, intents IntentRepository, refs ReferenceChecker, rateLimiter ratelimiter.RateLimiterInterface) *Reconciler {
	return &Reconciler{
		storage:     storage,
		intents:     intents,
		refs:        refs,
		rateLimiter: rateLimiter,
		now:         time.Now,
	}
}

// Sweep は olderThan より前に作成された先行記録について、オブジェクトと記録を削除します。
// olderThan は進行中のリクエストの記録を消さないための猶予です。
// レコードの保存後に記録の削除だけが失敗した場合、オブジェクトは参照中なので記録だけを削除します。
// 1件の失敗では処理を止めずにログに出力し、次の記録に進みます。
// 記録はバッチ単位で読み込み、cutoff より前の記録がなくなるまで繰り返します。
func (r *Reconciler) Sweep(ctx context.Context, olderThan time.Duration) (SweepResult, error) {
	var res SweepResult

	cutoff := r.now().Add(-olderThan)
	failed := make(map[uint]struct{})

	for {
		pending, err := r.intents.ListOlderThan(ctx, cutoff, sweepBatchSize)
		if err != nil {
			return res, fmt.Errorf("list upload intents: %w", err)
		}

		progressed := false
		for _, in := range pending {
			if _, ok := failed[in.ID]; ok {
				continue
			}
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.Scanned++

			if r.sweepOne(ctx, in.ID, in.ObjectKey, in.URL, &res) {
				progressed = true
			} else {
				failed[in.ID] = struct{}{}
			}
		}

		if len(pending) < sweepBatchSize {
			break
		}
		// 失敗した記録だけが残るバッチでは先に進めないため打ち切ります。
		if !progressed {
			res.HasMore = true
			break
		}
	}

	slog.Info("orphan sweep finished",
		"cutoff", cutoff,
		"scanned", res.Scanned,
		"deleted", res.Deleted,
		"kept", res.Kept,
		"failed", res.Failed,
		"has_more", res.HasMore,
	)
	return res, nil
}

// sweepOne は1件の先行記録を処理し、記録を削除できた場合に true を返します。
func (r *Reconciler) sweepOne(ctx context.Context, id uint, key, url string, res *SweepResult) bool {
	referenced, err := r.refs.IsReferenced(ctx, url)
	if err != nil {
		slog.Error("failed to check object reference", "key", key, "error", err)
		res.Failed++
		return false
	}

	if !referenced {
		r.rateLimiter.WaitIfNeeded()
		if err := r.storage.Delete(ctx, key); err != nil {
			slog.Error("failed to delete orphaned object", "key", key, "error", err)
			res.Failed++
			return false
		}
	}

	if err := r.intents.Delete(ctx, id); err != nil {
		slog.Error("failed to delete upload intent", "id", id, "key", key, "error", err)
		res.Failed++
		return false
	}

	if referenced {
		slog.Warn("upload intent outlived its record; object kept", "key", key)
		res.Kept++
	} else {
		res.Deleted++
	}
	return true
}

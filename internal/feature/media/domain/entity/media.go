// Package entity はmediaフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// オブジェクトストレージ上のフォルダ（キーの先頭セグメント）です。
const (
	FolderProfilePictures = "profile_pictures"
	FolderEventImages     = "event_images"
)

// Upload はメモリ上にバッファされたアップロード対象のファイルです。
type Upload struct {
	Data        []byte
	ContentType string
	Filename    string
}

// StagedFile はディスクに一時保存されたアップロード対象のファイルです。
// 一時ファイルの削除はステージングした側（HTTPハンドラー）の責務です。
type StagedFile struct {
	Path        string
	ContentType string
	Filename    string
}

// UploadIntent はアップロード前に書き込まれる先行記録です。
// 所有するドメインレコード（アカウント・イベント）の永続化後に削除されます。
// 残ったままの記録は孤立オブジェクトの候補として Reconciler が掃除します。
type UploadIntent struct {
	ID        uint      `gorm:"primaryKey"`
	ObjectKey string    `gorm:"uniqueIndex;size:255;not null"`
	URL       string    `gorm:"index;size:1024;not null"`
	CreatedAt time.Time `gorm:"index"`
}

// Package dto はeventsフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// CreateEventReq は/api/events/createEventのマルチパートフォームを表します。
// 添付ファイル（files）はハンドラーで別途読み取ります。
type CreateEventReq struct {
	Email        string `form:"email" binding:"required,email"`
	Name         string `form:"name" binding:"required"`
	Description  string `form:"description" binding:"required"`
	Date         string `form:"date" binding:"required"`
	Location     string `form:"location" binding:"required"`
	Category     string `form:"category" binding:"required"`
	MaxAttendees int    `form:"maxAttendees" binding:"required,gt=0"`
}

// EventsByEmailReq は/api/events/getEventsByEmailのリクエストボディを表します。
// email の欠落はユースケースで ErrEmailRequired として扱います。
type EventsByEmailReq struct {
	Email string `json:"email"`
}

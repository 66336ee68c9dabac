package dto

import (
	"time"

	"event_backend/internal/feature/events/domain/entity"
)

// CreatorResponse はイベント作成者の公開表現です。
type CreatorResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// EventResponse はイベントの公開表現です。
type EventResponse struct {
	ID           uint             `json:"_id"`
	EventID      string           `json:"event_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Date         time.Time        `json:"date"`
	Location     string           `json:"location"`
	Category     string           `json:"category"`
	MaxAttendees int              `json:"maxAttendees"`
	Attendees    []uint           `json:"attendees"`
	CreatedBy    string           `json:"createdBy"`
	Creator      *CreatorResponse `json:"creator,omitempty"`
	DocumentURLs []string         `json:"documentURLs"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// NewEventResponse はエンティティから公開表現を生成します。
// 配列フィールドは null ではなく空配列として出力します。
func NewEventResponse(e *entity.Event, creator *entity.Creator) EventResponse {
	res := EventResponse{
		ID:           e.ID,
		EventID:      e.EventID,
		Name:         e.Name,
		Description:  e.Description,
		Date:         e.Date,
		Location:     e.Location,
		Category:     e.Category,
		MaxAttendees: e.MaxAttendees,
		Attendees:    e.Attendees,
		CreatedBy:    e.CreatedBy,
		DocumentURLs: e.DocumentURLs,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if res.Attendees == nil {
		res.Attendees = []uint{}
	}
	if res.DocumentURLs == nil {
		res.DocumentURLs = []string{}
	}
	if creator != nil {
		res.Creator = &CreatorResponse{Email: creator.Email, Username: creator.Username}
	}
	return res
}

// NewEventListResponse はビューの一覧から公開表現の一覧を生成します。
func NewEventListResponse(views []entity.EventView) []EventResponse {
	out := make([]EventResponse, 0, len(views))
	for i := range views {
		out = append(out, NewEventResponse(&views[i].Event, views[i].Creator))
	}
	return out
}

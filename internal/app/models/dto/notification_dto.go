package dto

import (
	"time"

	"github.com/anirudhb/achievehub/internal/app/models"
)

// NotificationResponse is the public view of a notification
type NotificationResponse struct {
	ID                   int64      `json:"id"`
	Type                 string     `json:"type"`
	Message              string     `json:"message"`
	RelatedAchievementID int64      `json:"relatedAchievementId,omitempty"`
	Priority             string     `json:"priority"`
	IsRead               bool       `json:"isRead"`
	CreatedAt            time.Time  `json:"createdAt"`
	ReadAt               *time.Time `json:"readAt,omitempty"`
}

func FromNotification(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:                   n.ID,
		Type:                 string(n.Type),
		Message:              n.Message,
		RelatedAchievementID: n.RelatedAchievementID,
		Priority:             n.Priority,
		IsRead:               n.IsRead,
		CreatedAt:            n.CreatedAt,
		ReadAt:               n.ReadAt,
	}
}

func FromNotifications(list []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, FromNotification(&list[i]))
	}
	return out
}

// UnreadCountResponse reports how many notifications are unread
type UnreadCountResponse struct {
	Count int `json:"count"`
}

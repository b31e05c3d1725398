package models

import "time"

// NotificationType tags what triggered a notification
type NotificationType string

const (
	NotificationSubmission NotificationType = "submission"
	NotificationApproval   NotificationType = "approval"
	NotificationRejection  NotificationType = "rejection"
)

// Notification priorities
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// Notification is a message shown to one user. Review decisions commit
// together with their notification; submission receipts are best effort.
type Notification struct {
	ID                   int64            `json:"id" db:"id"`
	UserID               int64            `json:"userId" db:"user_id"`
	Type                 NotificationType `json:"type" db:"type"`
	Message              string           `json:"message" db:"message"`
	RelatedAchievementID int64            `json:"relatedAchievementId,omitempty" db:"related_achievement_id"`
	Priority             string           `json:"priority" db:"priority"`
	IsRead               bool             `json:"isRead" db:"is_read"`
	CreatedAt            time.Time        `json:"createdAt" db:"created_at"`
	ReadAt               *time.Time       `json:"readAt,omitempty" db:"read_at"`
}

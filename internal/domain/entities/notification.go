package entities

import "time"

// NotificationType selects the icon and label shown for a notification
type NotificationType string

const (
	NotificationLike       NotificationType = "like"
	NotificationFollow     NotificationType = "seguidor"
	NotificationComment    NotificationType = "comentario"
	NotificationModeration NotificationType = "moderacion"
	NotificationPromotion  NotificationType = "promocion"
	NotificationSystem     NotificationType = "sistema"
)

// Label returns the display label for the notification type
func (t NotificationType) Label() string {
	switch t {
	case NotificationLike:
		return "New like"
	case NotificationFollow:
		return "New follower"
	case NotificationComment:
		return "New comment"
	case NotificationModeration:
		return "Moderation update"
	case NotificationPromotion:
		return "Promotion"
	default:
		return "Notice"
	}
}

// Notification belongs to one user and is created by backend-side events
type Notification struct {
	ID        string           `json:"_id"`
	User      Ref              `json:"usuario"`
	Type      NotificationType `json:"tipo"`
	Message   string           `json:"mensaje"`
	Read      bool             `json:"leida"`
	CreatedAt time.Time        `json:"fecha"`
}
